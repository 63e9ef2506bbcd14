package main

import (
	"fmt"

	"github.com/fwojciec/newsdigest"
	"github.com/fwojciec/newsdigest/csv"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := newsdigest.ArticleFilter{
		NoSummary: c.NoSummary,
		Limit:     c.Limit,
	}
	if c.Category != "" {
		filter.Category = &c.Category
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsdigest.ErrorMessage(err))
		return err
	}

	if c.CSV {
		w := csv.NewWriter(deps.Stdout, true)
		for _, a := range articles {
			if err := w.WriteArticle(deps.Ctx, a); err != nil {
				return err
			}
		}
		return w.Close()
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'newsdigest fetch' to scrape some.")
		return nil
	}

	for _, a := range articles {
		fmt.Fprintf(deps.Stdout, "%s  %-14s %6d  %s\n", a.ID, a.Category, a.ContentLength, a.Title)
		fmt.Fprintf(deps.Stdout, "    %s\n", a.URL)
		if a.Summary != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", a.Summary)
		}
	}

	return nil
}
