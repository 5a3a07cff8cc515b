package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/logging"
	"github.com/nicolas-cahorel/P3-Mission/internal/repository"
	"github.com/nicolas-cahorel/P3-Mission/internal/review"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
	"github.com/nicolas-cahorel/P3-Mission/internal/store"
)

type rootOptions struct {
	file     string
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Inspect and load restaurant reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "YAML seed file (default: the shipped reviews)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")

	root.AddCommand(newStatsCmd(opts), newAdmitCmd(opts), newSeedDBCmd(opts))
	return root
}

func (o *rootOptions) logger() *zap.Logger {
	logger, err := logging.New(o.logLevel)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadStore builds a store from the seed file, or from the shipped reviews
// when no file is given.
func (o *rootOptions) loadStore(ctx context.Context) *review.Store {
	var src seed.Source = seed.TajMahal()
	if o.file != "" {
		src = seed.File{Path: o.file}
	}
	logger := o.logger()
	return review.NewStore(seed.Fetch(ctx, src, o.timeout, logger), review.WithLogger(logger))
}

// loadDocument reads the seed file, or the shipped reviews and details when
// no file is given.
func (o *rootOptions) loadDocument(ctx context.Context) (seed.Document, error) {
	if o.file == "" {
		restaurant := domain.Restaurant(seed.TajMahalRestaurant())
		return seed.Document{Restaurant: &restaurant, Reviews: seed.TajMahal()}, nil
	}
	doc, err := seed.File{Path: o.file}.Load(ctx)
	if err != nil {
		return seed.Document{}, err
	}
	if doc.Reviews == nil {
		return seed.Document{}, fmt.Errorf("%w: %s has no reviews", seed.ErrUnavailable, o.file)
	}
	return doc, nil
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print review count, star histogram and average",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := opts.loadStore(cmd.Context())
			defer st.Close()
			printStats(cmd.OutOrStdout(), st.Stats())
			return nil
		},
	}
}

// writeReviews replaces the reviews of the seed file, keeping its
// restaurant block.
func (o *rootOptions) writeReviews(ctx context.Context, reviews []domain.Review) error {
	if o.file == "" {
		return errors.New("--write needs --file")
	}
	doc, err := seed.File{Path: o.file}.Load(ctx)
	if err != nil && !errors.Is(err, seed.ErrUnavailable) {
		return err
	}
	doc.Reviews = reviews
	raw, err := seed.EncodeYAML(doc)
	if err != nil {
		return fmt.Errorf("encode seed file: %w", err)
	}
	return os.WriteFile(o.file, raw, 0o644)
}

func newAdmitCmd(opts *rootOptions) *cobra.Command {
	var (
		candidate domain.Review
		write     bool
	)
	cmd := &cobra.Command{
		Use:   "admit",
		Short: "Check whether a review would be accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := opts.loadStore(cmd.Context())
			defer st.Close()

			result := st.TryAdmit(candidate)
			out := cmd.OutOrStdout()
			if !result.Accepted() {
				fmt.Fprintf(out, "rejected: %s (%v)\n", result.Reason, result.Err())
				return nil
			}
			fmt.Fprintln(out, "accepted")
			printStats(out, st.Stats())
			if write {
				return opts.writeReviews(cmd.Context(), st.CurrentSnapshot().Reviews())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&candidate.Author, "author", "", "review author")
	cmd.Flags().StringVar(&candidate.AvatarURL, "avatar-url", "", "author avatar URL")
	cmd.Flags().StringVar(&candidate.Content, "content", "", "review comment")
	cmd.Flags().IntVar(&candidate.Rating, "rating", 0, "star rating")
	cmd.Flags().BoolVar(&write, "write", false, "save the accepted review back to --file")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newSeedDBCmd(opts *rootOptions) *cobra.Command {
	var dbURL, restaurantID string
	cmd := &cobra.Command{
		Use:   "seed-db",
		Short: "Load the seed reviews into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			doc, err := opts.loadDocument(ctx)
			if err != nil {
				return fmt.Errorf("load seed: %w", err)
			}

			db, err := store.Open(ctx, dbURL, store.LoaderOptions(opts.logger()))
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.New(db)
			if err := repo.Reviews.InsertBatch(ctx, restaurantID, doc.Reviews); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if doc.Restaurant != nil {
				if err := repo.Restaurants.Upsert(ctx, restaurantID, *doc.Restaurant); err != nil {
					return err
				}
				fmt.Fprintf(out, "stored details of %s\n", doc.Restaurant.Name)
			}
			total, err := repo.Reviews.Count(ctx, restaurantID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "inserted %d reviews for %s (total %d)\n", len(doc.Reviews), restaurantID, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Postgres connection URL")
	cmd.Flags().StringVar(&restaurantID, "restaurant", "tajmahal", "restaurant id")
	_ = cmd.MarkFlagRequired("db-url")
	return cmd
}

func printStats(w io.Writer, stats domain.RatingStats) {
	fmt.Fprintf(w, "reviews: %d\n", stats.TotalCount)
	for star := domain.StarBuckets; star >= 1; star-- {
		pct := stats.Percent[star-1]
		fmt.Fprintf(w, "%d★ %3d%% %s\n", star, pct, strings.Repeat("#", pct/5))
	}
	fmt.Fprintf(w, "average: %.1f\n", stats.Average)
}
