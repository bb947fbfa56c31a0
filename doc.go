// Package spikego provides temporal spike-pattern recognition for Go.
//
// Spikego encodes grayscale images as precise spike timings on a lattice of
// pattern-matching neurons and classifies the resulting activation patterns
// with k-nearest-neighbor voting. It includes:
//
//   - Exemplar neurons with bounded pattern stores and pluggable update
//     policies (append, replace_worst, merge_similar, hybrid)
//   - Edge operators: Sobel, Gabor and Difference-of-Gaussians
//   - Spike encoders: rate (latency), temporal (dual-spike, jitter) and
//     population (Gaussian tuning curves)
//   - Spike-train similarity: binned cosine, Victor-Purpura distance and
//     Bhattacharyya histogram overlap
//   - Classification strategies: majority, weighted distance and weighted
//     similarity voting with confidence scores
//   - Snapshot persistence with pluggable codecs, zstd/lz4 compression and
//     local, in-memory, S3 and MinIO blob stores
//
// # Quick Start
//
// Create a pipeline, train it on labeled samples and classify:
//
//	ctx := context.Background()
//	p, err := spikego.New(4,
//	    spikego.WithEdgeOperator("sobel", edge.DefaultConfig),
//	    spikego.WithEncoding("rate", encoding.DefaultConfig),
//	    spikego.WithClassifier("majority", classify.DefaultConfig),
//	)
//	if err != nil {
//	    panic(err)
//	}
//
//	for _, sample := range trainingSet {
//	    if err := p.Train(ctx, sample.Pixels, sample.Label); err != nil {
//	        panic(err)
//	    }
//	}
//
//	res, err := p.Classify(ctx, probePixels)
//	fmt.Println(res.Label, res.Confidence)
//
// Lower-level control is available through Retina and the neuron, edge,
// encoding, learn and classify packages.
package spikego
