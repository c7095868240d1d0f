package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const (
	tableArticles = "articles"
	tablePosts    = "posts"
)

var (
	dbListTable    string
	dbDeleteTable  string
	dbCleanupTable string
	dbEntryID      int64
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect or clean up the article database",
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries from a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()

		repo := application.Repository()
		ctx := cmd.Context()

		switch dbListTable {
		case tableArticles:
			articles, err := repo.ListArticles(ctx)
			if err != nil {
				return err
			}
			if len(articles) == 0 {
				fmt.Println("no entries found in table 'articles'")
				return nil
			}
			fmt.Println("ID | Title | Summary | Link | Published At | Fingerprint")
			fmt.Println(strings.Repeat("-", 80))
			for _, a := range articles {
				fmt.Printf("%d | %s | %s | %s | %s | %s\n",
					a.ID, a.Title, a.Summary, a.Link, a.PublishedAt, a.Fingerprint)
			}
		case tablePosts:
			records, err := repo.ListPosts(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("no entries found in table 'posts'")
				return nil
			}
			fmt.Println("ID | Fingerprint")
			fmt.Println(strings.Repeat("-", 80))
			for _, p := range records {
				fmt.Printf("%d | %s\n", p.ID, p.Fingerprint)
			}
		default:
			return fmt.Errorf("unknown table %q", dbListTable)
		}

		return nil
	},
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an entry by id from a table",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()

		repo := application.Repository()
		ctx := cmd.Context()

		var deleted bool
		switch dbDeleteTable {
		case tableArticles:
			deleted, err = repo.DeleteArticle(ctx, dbEntryID)
		case tablePosts:
			deleted, err = repo.DeletePost(ctx, dbEntryID)
		default:
			return fmt.Errorf("unknown table %q", dbDeleteTable)
		}
		if err != nil {
			return err
		}

		if !deleted {
			fmt.Printf("no entry with id %d found in table %q\n", dbEntryID, dbDeleteTable)
			return nil
		}
		fmt.Printf("deleted entry %d from table %q\n", dbEntryID, dbDeleteTable)
		return nil
	},
}

var dbCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete all entries from a table, or from both tables if omitted",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := loadApp()
		if err != nil {
			return err
		}
		defer application.Close()

		repo := application.Repository()
		ctx := cmd.Context()

		tables := []string{dbCleanupTable}
		if dbCleanupTable == "" {
			tables = []string{tableArticles, tablePosts}
		}

		for _, table := range tables {
			switch table {
			case tableArticles:
				err = repo.CleanupArticles(ctx)
			case tablePosts:
				err = repo.CleanupPosts(ctx)
			default:
				return fmt.Errorf("unknown table %q", table)
			}
			if err != nil {
				return err
			}
			fmt.Printf("cleaned up all entries from table %q\n", table)
		}

		return nil
	},
}

func init() {
	dbListCmd.Flags().StringVar(&dbListTable, "table", tableArticles, "table to list (articles or posts)")
	dbDeleteCmd.Flags().StringVar(&dbDeleteTable, "table", tableArticles, "table to delete from (articles or posts)")
	dbDeleteCmd.Flags().Int64Var(&dbEntryID, "id", 0, "id of the entry to delete")
	_ = dbDeleteCmd.MarkFlagRequired("id")
	dbCleanupCmd.Flags().StringVar(&dbCleanupTable, "table", "", "table to clean up; both when omitted")

	dbCmd.AddCommand(dbListCmd, dbDeleteCmd, dbCleanupCmd)
}
