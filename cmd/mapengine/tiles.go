package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mapengine/core/config"
	"mapengine/platform"
	"mapengine/tile/cache"
	"mapengine/tile/source"
	"mapengine/tile/tileid"
	"mapengine/workpool"

	"github.com/spf13/cobra"
)

var tilesURLTemplate string

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Tile pipeline debugging",
}

var tilesInspectCmd = &cobra.Command{
	Use:   "inspect <source-id> <z>/<x>/<y>",
	Short: "Load one tile end-to-end and print its decode result/timing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTilesInspect(args[0], args[1])
	},
}

func init() {
	tilesInspectCmd.Flags().StringVar(&tilesURLTemplate, "url-template", "",
		`tile URL template with "{z}/{x}/{y}" placeholders (required)`)
	tilesCmd.AddCommand(tilesInspectCmd)
	rootCmd.AddCommand(tilesCmd)
}

func parseTileID(s string) (tileid.ID, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return tileid.ID{}, fmt.Errorf("expected z/x/y, got %q", s)
	}
	z, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return tileid.ID{}, fmt.Errorf("invalid zoom %q: %w", parts[0], err)
	}
	x, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return tileid.ID{}, fmt.Errorf("invalid x %q: %w", parts[1], err)
	}
	y, err := strconv.ParseInt(parts[2], 10, 32)
	if err != nil {
		return tileid.ID{}, fmt.Errorf("invalid y %q: %w", parts[2], err)
	}
	return tileid.ID{Z: uint8(z), X: int32(x), Y: int32(y)}, nil
}

// passthroughDecoder hands the raw fetched payload straight through,
// mirroring scene/lifecycle's own opaqueDecoder: interpreting the bytes
// is renderer/geometry-builder territory outside this tool's scope.
func passthroughDecoder() source.Decoder {
	return source.DecoderFunc(func(sourceID string, id tileid.ID, raw []byte) (any, error) {
		return raw, nil
	})
}

func runTilesInspect(sourceID, tileSpec string) error {
	id, err := parseTileID(tileSpec)
	if err != nil {
		return err
	}
	if tilesURLTemplate == "" {
		return fmt.Errorf("--url-template is required")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	requester := platform.NewClient(cfg.Platform, nil, "", func() {}, func(bool) {})
	defer requester.Shutdown()

	decodePool := workpool.NewPool(cfg.Workers.DecodePoolSize, cfg.Workers.OrderedQueueDepth)

	src := source.New(source.Config{
		ID:          sourceID,
		URLTemplate: tilesURLTemplate,
		MaxZoom:     255,
	}, requester, decodePool, passthroughDecoder())

	type result struct {
		bytes int
		err   error
	}
	resultCh := make(chan result, 1)
	start := time.Now()
	src.LoadTile(id, func(t *cache.Tile, err error) {
		if err != nil {
			resultCh <- result{err: err}
			return
		}
		resultCh <- result{bytes: len(t.Data.([]byte))}
	})

	select {
	case r := <-resultCh:
		elapsed := time.Since(start)
		if r.err != nil {
			return fmt.Errorf("load %s/%s: %w", sourceID, id, r.err)
		}
		fmt.Printf("tile %s/%s: %d bytes in %s\n", sourceID, id, r.bytes, elapsed)
		return nil
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timed out loading %s/%s", sourceID, id)
	}
}
