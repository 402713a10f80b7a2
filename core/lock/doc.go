// Package lock provides the run-level lease that serializes catalog syncs.
//
// A lease is a named lock with an expiry. RedisLocker stores it as a redis key written
// with SET NX PX and releases it with a compare-and-delete script, so a run whose lease
// expired cannot remove the lease of the run that replaced it. LocalLocker implements
// the same contract in memory for deployments without redis; it only serializes runs
// inside a single process.
package lock
