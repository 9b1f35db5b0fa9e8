// Package ingestion provides batched pipeline orchestration for loading
// articles into the document store.
//
// The Pipeline type fetches each article, structures it into chunks,
// and writes the derived documents to storage. Work proceeds in
// fixed-size batches: articles within a batch run concurrently on a
// worker pool, batches run strictly one after another, and a failing
// article is recorded in its IngestResult without aborting siblings or
// later batches.
package ingestion
