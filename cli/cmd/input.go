package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/litweb/log"
	"github.com/ardnew/litweb/pkg"
	"github.com/ardnew/litweb/web"
)

// Input holds the flags shared by every command that reads a web.
type Input struct {
	Sources []string `arg:"" help:"Input file(s), or '-' for stdin (default: stdin)" optional:"" type:"existingfile"`

	IncludePath []string `help:"Directory searched for included files (before ${pathEnv})" placeholder:"DIR" sep:"none" short:"I" type:"path"`
	RegionTag   []string `help:"Additional region name accepted after =begin and =end"      placeholder:"TAG"`
	Marker      string   `default:"${marker}"                                                help:"Prefix that introduces directives"`
	MaxDepth    int      `default:"${maxDepth}"                                              help:"Maximum nesting of expanded uses"`
}

// newWeb returns an empty web configured by the input flags.
func (in *Input) newWeb(ctx context.Context) (*web.Web, error) {
	search := web.SearchPath(os.Getenv(pkg.PathEnv), in.IncludePath...)

	log.DebugContext(ctx, "configure",
		slog.String("marker", in.Marker),
		slog.Any("region_tags", in.RegionTag),
		slog.Any("search_path", search),
		slog.Int("max_depth", in.MaxDepth),
	)

	return web.New(
		web.WithMarker(in.Marker),
		web.WithRegionTags(in.RegionTag...),
		web.WithSearchPath(search...),
		web.WithMaxDepth(in.MaxDepth),
		web.WithLogger(log.Default()),
	)
}

// parse reads every source into w, in order.
func (in *Input) parse(ctx context.Context, w *web.Web) error {
	srcs, err := sources(in.Sources)
	if err != nil {
		return err
	}

	stdin := streamsFrom(ctx).stdin

	for _, src := range srcs {
		err := in.parseSource(ctx, w, src, stdin)
		if err != nil {
			return err
		}
	}

	return nil
}

func (in *Input) parseSource(
	ctx context.Context,
	w *web.Web,
	src source,
	stdin io.Reader,
) error {
	rc, err := src.open(stdin)
	if err != nil {
		return web.ErrReadInput.Wrap(err).With(slog.String("file", src.name))
	}
	defer rc.Close()

	return w.Parse(ctx, src.name, rc)
}
