package main

import (
	"fmt"
	"time"

	"mapengine/core/config"
	"mapengine/core/database"
	"mapengine/core/storage"
	"mapengine/platform"
	"mapengine/scene/importer"
	"mapengine/scene/lifecycle"
	"mapengine/scene/model"
	"mapengine/telemetry"
	"mapengine/tile/cache"
	"mapengine/urladdr"
	"mapengine/workpool"

	"github.com/spf13/cobra"
)

var sceneAsync bool

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Scene assembly debugging",
}

var sceneLoadCmd = &cobra.Command{
	Use:   "load <root-url>",
	Short: "Load a scene document and print a summary of the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSceneLoad(args[0], sceneAsync)
	},
}

func init() {
	sceneLoadCmd.Flags().BoolVar(&sceneAsync, "async", false, "load through LoadAsync instead of LoadSync")
	sceneCmd.AddCommand(sceneLoadCmd)
	rootCmd.AddCommand(sceneCmd)
}

func runSceneLoad(rawURL string, async bool) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rootURL, err := urladdr.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse root url: %w", err)
	}

	storageClient, err := storage.NewClient(cfg.Storage)
	if err != nil {
		fmt.Printf("s3 storage disabled: %v\n", err)
		storageClient = nil
	}

	requester := platform.NewClient(cfg.Platform, storageClient, cfg.Storage.Bucket, func() {}, func(bool) {})
	defer requester.Shutdown()

	decodePool := workpool.NewPool(cfg.Workers.DecodePoolSize, cfg.Workers.OrderedQueueDepth)
	worker := workpool.NewOrderedWorker(cfg.Workers.OrderedQueueDepth)
	imp := importer.New(requester, decodePool, nil)
	tileCache := cache.New(cfg.TileCache)

	db, err := database.Connect(cfg.Telemetry)
	if err != nil {
		fmt.Printf("telemetry disabled: %v\n", err)
		db = nil
	} else if err := db.AutoMigrate(&telemetry.SceneLoadEvent{}, &telemetry.TileFetchEvent{}); err != nil {
		fmt.Printf("telemetry disabled: migrate: %v\n", err)
		db = nil
	}
	store := telemetry.NewStore(db)

	lc := lifecycle.New(requester, decodePool, worker, imp, tileCache, cfg.TileManager, store, nil)

	opts := model.NewSceneOptions(rootURL)
	opts.PixelScale = cfg.Scene.PixelScale

	if !async {
		s := lc.LoadSync(opts)
		printScene(s)
		return nil
	}

	done := make(chan struct{})
	lc.SetOnSceneReady(func(id uint64, errs []model.SceneError) {
		close(done)
	})
	id := lc.LoadAsync(opts)
	fmt.Printf("submitted async load, scene id %d\n", id)

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timed out waiting for scene %d to become ready", id)
	}
	printScene(lc.Current())
	return nil
}

func printScene(s *model.Scene) {
	fmt.Printf("scene %d: state=%s styles=%d sources=%v\n",
		s.ID(), s.State(), len(s.Styles()), s.TileSourceIDs())
	for _, e := range s.Errors() {
		fmt.Printf("  error: %s\n", e.Error())
	}
}
