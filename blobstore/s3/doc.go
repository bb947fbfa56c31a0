// Package s3 provides an S3 implementation of the blobstore.BlobStore
// interface, used to persist snapshot archives of learned patterns.
//
// Store covers plain S3 buckets. DDBCommitStore layers a DynamoDB commit
// log on top so concurrent writers can atomically advance the CURRENT
// snapshot pointer.
package s3
