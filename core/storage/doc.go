// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface, which covers AWS S3 and
// self-hosted MinIO. The catalog feature archives every fetched provider snapshot
// through it and replays archived snapshots on demand.
//
// # Operations
//
//   - BucketExists / MakeBucket, combined by EnsureBucket
//   - PutObject: uploads a snapshot
//   - GetObject: streams a snapshot back
//   - ListObjects: lists snapshots under a prefix
//
// The mocks subpackage carries a testify mock of Client for unit tests.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
