package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/matst80/magic-search/pkg/common"
	"github.com/matst80/magic-search/pkg/storage"
	"github.com/matst80/magic-search/pkg/tui"
	"github.com/matst80/magic-search/pkg/types"
)

var (
	facetsFile = flag.StringP("facets", "f", common.EnvOr("FACETS_FILE", "facets.yaml"), "facet definitions, yaml or json")
	query      = flag.StringP("query", "q", "", "initial query, for example status=active&name=web")
	redisUrl   = flag.String("redis", os.Getenv("REDIS_URL"), "load definitions from redis instead of a file")
	region     = flag.String("region", common.EnvOr("REGION", "se"), "region of the redis definitions")
)

func loadDocument(ctx context.Context) (*types.FacetDocument, error) {
	var store types.FacetStorage
	if *redisUrl != "" {
		redisStore := storage.NewRedisStorage(storage.NewRedisClient(*redisUrl, os.Getenv("REDIS_PASSWORD"), 0), *region)
		defer redisStore.Close()
		store = redisStore
	} else {
		store = storage.NewFileStorage(*facetsFile)
	}
	doc, err := store.LoadFacets(ctx)
	if errors.Is(err, storage.ErrNoFacets) {
		return nil, fmt.Errorf("no facet definitions in %s", *facetsFile)
	}
	return doc, err
}

func main() {
	flag.Parse()
	common.InitLogger("magic-search-console", "development")
	common.SetLogLevel(common.EnvOr("LOG_LEVEL", "warn"))

	doc, err := loadDocument(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load facet definitions")
	}

	program := tea.NewProgram(tui.NewModel(doc, *query))
	final, err := program.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("console failed")
	}
	if model, ok := final.(tui.Model); ok {
		fmt.Println(model.Query())
	}
}
