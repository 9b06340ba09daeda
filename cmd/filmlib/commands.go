package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/filmlib/internal/browse"
	"github.com/vmunix/filmlib/internal/production"
)

func init() {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a movie or series",
		Long: `Adds a production to the library. Anything left out keeps its
default: the title "Add title", no genre, and today's release date.`,
		Args: cobra.NoArgs,
		RunE: withApp(runAdd),
	}
	addCmd.Flags().String("title", "", "Title")
	addCmd.Flags().String("genre", "", "Genre: "+genreNames())
	addCmd.Flags().String("date", "", "Release date (YYYY-MM-DD)")
	addCmd.Flags().String("kind", "", "Kind: movie or series (default: series when --season is given)")
	addCmd.Flags().Int("minutes", 0, "Movie duration in minutes")
	addCmd.Flags().StringArray("season", nil, "Series season as SEASON=EPISODES (repeatable)")
	addCmd.Flags().Bool("watched", false, "Mark as watched")
	addCmd.Flags().Int("rate", 0, "Rating 1-10 (requires --watched)")
	addCmd.Flags().String("comment", "", "Comment (requires --watched)")
	addCmd.Flags().String("image-uri", "", "Poster image URI")

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List productions",
		Long: `Lists the library. A non-blank --query searches titles and ignores
the other filters and the ordering.`,
		Args: cobra.NoArgs,
		RunE: withApp(runList),
	}
	listCmd.Flags().StringP("query", "q", "", "Title search (case-insensitive substring)")
	listCmd.Flags().StringP("genre", "g", "", "Genre filter: "+genreNames())
	listCmd.Flags().StringP("watched", "w", "", "Watched filter: any, watched, unwatched")
	listCmd.Flags().StringP("sort", "s", "", "Order: "+sortKeyNames())

	showCmd := &cobra.Command{
		Use:   "show <id|title>",
		Short: "Show one production",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runShow),
	}

	editCmd := &cobra.Command{
		Use:   "edit <id|title>",
		Short: "Edit title, genre, release date or length",
		Long: `Edits the descriptive fields of an unwatched production.
Watched productions are locked; unwatch them first.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(runEdit),
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("genre", "", "New genre")
	editCmd.Flags().String("date", "", "New release date (YYYY-MM-DD)")
	editCmd.Flags().Int("minutes", 0, "New movie duration in minutes")
	editCmd.Flags().StringArray("season", nil, "Set a season as SEASON=EPISODES (repeatable)")
	editCmd.Flags().IntSlice("remove-season", nil, "Remove a season")

	watchCmd := &cobra.Command{
		Use:   "watch <id|title>",
		Short: "Mark as watched",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runWatch(true)),
	}
	unwatchCmd := &cobra.Command{
		Use:   "unwatch <id|title>",
		Short: "Mark as not watched",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runWatch(false)),
	}

	rateCmd := &cobra.Command{
		Use:   "rate <id|title> <1-10|0>",
		Short: "Rate a watched production (0 clears)",
		Args:  cobra.ExactArgs(2),
		RunE:  withApp(runRate),
	}

	commentCmd := &cobra.Command{
		Use:   "comment <id|title> [text]",
		Short: "Comment on a watched production (no text clears)",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  withApp(runComment),
	}

	imageCmd := &cobra.Command{
		Use:   "image <id|title>",
		Short: "Set or clear the poster image",
		Args:  cobra.ExactArgs(1),
		RunE:  withApp(runImage),
	}
	imageCmd.Flags().String("uri", "", "Image URI")
	imageCmd.Flags().String("file", "", "Read image bytes from a file")
	imageCmd.Flags().Bool("clear", false, "Remove the image")
	imageCmd.MarkFlagsMutuallyExclusive("uri", "file", "clear")
	imageCmd.MarkFlagsOneRequired("uri", "file", "clear")

	deleteCmd := &cobra.Command{
		Use:     "delete <id|title>",
		Aliases: []string{"rm"},
		Short:   "Delete a production",
		Args:    cobra.ExactArgs(1),
		RunE:    withApp(runDelete),
	}

	rootCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, watchCmd, unwatchCmd,
		rateCmd, commentCmd, imageCmd, deleteCmd)
}

func sortKeyNames() string {
	var names []string
	for _, k := range browse.SortKeys() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func genreNames() string {
	var names []string
	for _, g := range production.Genres() {
		if g != production.GenreAll {
			names = append(names, strings.ToLower(g.String()))
		}
	}
	return strings.Join(names, ", ")
}

func runAdd(cmd *cobra.Command, a *app, _ []string) error {
	f := cmd.Flags()
	var opts []production.Option

	if f.Changed("title") {
		title, _ := f.GetString("title")
		opts = append(opts, production.WithTitle(title))
	}
	if f.Changed("genre") {
		s, _ := f.GetString("genre")
		g, err := production.ParseGenre(s)
		if err != nil {
			return err
		}
		opts = append(opts, production.WithGenre(g))
	}
	if f.Changed("date") {
		s, _ := f.GetString("date")
		d, err := parseDate(s)
		if err != nil {
			return err
		}
		opts = append(opts, production.WithReleaseDate(d))
	}

	kindName, _ := f.GetString("kind")
	minutes, _ := f.GetInt("minutes")
	seasons, _ := f.GetStringArray("season")
	kind, err := buildKind(kindName, minutes, seasons)
	if err != nil {
		return err
	}
	opts = append(opts, production.WithKind(kind))

	watched, _ := f.GetBool("watched")
	rate, _ := f.GetInt("rate")
	comment, _ := f.GetString("comment")
	uri, _ := f.GetString("image-uri")
	if !watched && (rate != 0 || comment != "") {
		return fmt.Errorf("--rate and --comment: %w", production.ErrNotWatched)
	}
	opts = append(opts,
		production.WithWatched(watched),
		production.WithRate(rate),
		production.WithComment(comment),
	)
	if uri != "" {
		opts = append(opts, production.WithImage(production.ImageURI(uri)))
	}

	p, err := production.New(opts...)
	if err != nil {
		return err
	}
	if err := a.lib.Add(p); err != nil {
		return err
	}
	if err := a.save(cmd.Context()); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), p)
	}
	printOK(cmd.OutOrStdout(), "Added: %s (%s)", p.Title(), p.ID())
	return nil
}

// listQuery builds the browse query from flags, falling back to the
// configured defaults.
func listQuery(cmd *cobra.Command, a *app) (browse.Query, error) {
	f := cmd.Flags()
	text, _ := f.GetString("query")
	genreFlag, _ := f.GetString("genre")
	watchedFlag, _ := f.GetString("watched")
	sortFlag, _ := f.GetString("sort")
	if watchedFlag == "" {
		watchedFlag = a.cfg.Browse.DefaultWatched
	}
	if sortFlag == "" {
		sortFlag = a.cfg.Browse.DefaultSort
	}

	q := browse.Query{Text: text, Genre: production.GenreAll}
	if genreFlag != "" {
		g, err := production.ParseGenre(genreFlag)
		if err != nil {
			return q, err
		}
		q.Genre = g
	}
	mode, err := browse.ParseWatchedMode(watchedFlag)
	if err != nil {
		return q, err
	}
	key, err := browse.ParseSortKey(sortFlag)
	if err != nil {
		return q, err
	}
	q.Watched, q.Sort = mode, key
	return q, nil
}

func runList(cmd *cobra.Command, a *app, _ []string) error {
	q, err := listQuery(cmd, a)
	if err != nil {
		return err
	}
	list := a.lib.View(q)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), list)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No productions found.")
		return nil
	}
	printProductionList(cmd.OutOrStdout(), list, a.lib.Len())
	return nil
}

func runShow(cmd *cobra.Command, a *app, args []string) error {
	p, err := a.lib.Resolve(args[0])
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), p)
	}
	printProduction(cmd.OutOrStdout(), p)
	return nil
}

func runEdit(cmd *cobra.Command, a *app, args []string) error {
	f := cmd.Flags()
	updated, err := a.mutate(cmd, args[0], func(p *production.Production) error {
		if f.Changed("title") {
			title, _ := f.GetString("title")
			if err := p.SetTitle(title); err != nil {
				return err
			}
		}
		if f.Changed("genre") {
			s, _ := f.GetString("genre")
			g, err := production.ParseGenre(s)
			if err != nil {
				return err
			}
			if err := p.SetGenre(g); err != nil {
				return err
			}
		}
		if f.Changed("date") {
			s, _ := f.GetString("date")
			d, err := parseDate(s)
			if err != nil {
				return err
			}
			if err := p.SetReleaseDate(d); err != nil {
				return err
			}
		}
		return editKind(cmd, p)
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	printOK(cmd.OutOrStdout(), "Updated: %s", updated.Title())
	return nil
}

// editKind applies --minutes, --season and --remove-season.
func editKind(cmd *cobra.Command, p *production.Production) error {
	f := cmd.Flags()
	switch k := p.Kind().(type) {
	case production.Movie:
		if f.Changed("season") || f.Changed("remove-season") {
			return fmt.Errorf("%s is a movie; seasons apply to series only", p.Title())
		}
		if f.Changed("minutes") {
			k.Minutes, _ = f.GetInt("minutes")
			return p.SetKind(k)
		}
	case production.Series:
		if f.Changed("minutes") {
			return fmt.Errorf("%s is a series; --minutes applies to movies only", p.Title())
		}
		if !f.Changed("season") && !f.Changed("remove-season") {
			return nil
		}
		values, _ := f.GetStringArray("season")
		for _, v := range values {
			n, eps, err := parseSeason(v)
			if err != nil {
				return err
			}
			k = k.WithSeason(n, eps)
		}
		removed, _ := f.GetIntSlice("remove-season")
		for _, n := range removed {
			k = k.WithoutSeason(n)
		}
		return p.SetKind(k)
	}
	return nil
}

func runWatch(watched bool) func(*cobra.Command, *app, []string) error {
	return func(cmd *cobra.Command, a *app, args []string) error {
		updated, err := a.mutate(cmd, args[0], func(p *production.Production) error {
			p.SetWatched(watched)
			return nil
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), updated)
		}
		state := "watched"
		if !watched {
			state = "not watched"
		}
		printOK(cmd.OutOrStdout(), "%s: %s", updated.Title(), state)
		return nil
	}
}

func runRate(cmd *cobra.Command, a *app, args []string) error {
	rate, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("rate %q: not a number", args[1])
	}
	updated, err := a.mutate(cmd, args[0], func(p *production.Production) error {
		return p.SetRate(rate)
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	printOK(cmd.OutOrStdout(), "%s: rate %s", updated.Title(), formatRate(updated))
	return nil
}

func runComment(cmd *cobra.Command, a *app, args []string) error {
	var text string
	if len(args) == 2 {
		text = args[1]
	}
	updated, err := a.mutate(cmd, args[0], func(p *production.Production) error {
		return p.SetComment(text)
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	if _, ok := updated.Comment(); !ok {
		printOK(cmd.OutOrStdout(), "%s: comment cleared", updated.Title())
		return nil
	}
	printOK(cmd.OutOrStdout(), "%s: comment saved", updated.Title())
	return nil
}

func runImage(cmd *cobra.Command, a *app, args []string) error {
	f := cmd.Flags()
	var img production.Image
	switch {
	case f.Changed("uri"):
		uri, _ := f.GetString("uri")
		img = production.ImageURI(uri)
	case f.Changed("file"):
		path, _ := f.GetString("file")
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		img = production.ImageBytes(data)
	}

	updated, err := a.mutate(cmd, args[0], func(p *production.Production) error {
		p.SetImage(img)
		return nil
	})
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), updated)
	}
	printOK(cmd.OutOrStdout(), "%s: image updated", updated.Title())
	return nil
}

func runDelete(cmd *cobra.Command, a *app, args []string) error {
	p, err := a.lib.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := a.lib.Delete(p.ID()); err != nil {
		return err
	}
	if err := a.save(cmd.Context()); err != nil {
		return err
	}
	printOK(cmd.OutOrStdout(), "Deleted: %s (%s)", p.Title(), p.ReleaseDate().Format("2006"))
	return nil
}
