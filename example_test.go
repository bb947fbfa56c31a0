package spikego_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/spikego"
	"github.com/hupe1980/spikego/blobstore"
	"github.com/hupe1980/spikego/classify"
	"github.com/hupe1980/spikego/snapshot"
	"github.com/hupe1980/spikego/testutil"
)

// Example demonstrates training a pipeline on step edges and classifying
// a sample.
func Example() {
	ctx := context.Background()

	pipeline, err := spikego.New(1, // one 8x8 region, 8 orientations
		spikego.WithClassifier("majority", classify.Config{K: 1}),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := pipeline.Train(ctx, testutil.VerticalStep(8, 0, 255), 0); err != nil {
		log.Fatal(err)
	}
	if err := pipeline.Train(ctx, testutil.HorizontalStep(8, 0, 255), 1); err != nil {
		log.Fatal(err)
	}

	res, err := pipeline.Classify(ctx, testutil.VerticalStep(8, 0, 255))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("label=%d confidence=%.2f\n", res.Label, res.Confidence)
	// Output: label=0 confidence=1.00
}

// Example_snapshot demonstrates persisting learned patterns and restoring
// them into a fresh pipeline.
func Example_snapshot() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	pipeline, err := spikego.New(1, spikego.WithSnapshotOptions(func(o *snapshot.Options) {
		o.Compression = snapshot.CompressionZSTD
	}))
	if err != nil {
		log.Fatal(err)
	}

	if err := pipeline.Train(ctx, testutil.VerticalStep(8, 0, 255), 0); err != nil {
		log.Fatal(err)
	}

	if err := pipeline.SaveSnapshot(ctx, store, "lattice.snap"); err != nil {
		log.Fatal(err)
	}

	restored, err := spikego.New(1)
	if err != nil {
		log.Fatal(err)
	}

	if err := restored.LoadSnapshot(ctx, store, "lattice.snap"); err != nil {
		log.Fatal(err)
	}

	fmt.Println("neurons:", restored.Retina().Size())
	// Output: neurons: 8
}
