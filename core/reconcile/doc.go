// Package reconcile provides the generic building blocks used to merge an external
// catalog into relational tables without duplicating writes.
//
// The package is model agnostic. Callers describe an entity by its natural key and the
// full attribute set it should carry, and the engine decides whether the row has to be
// created, updated or left alone.
//
// # Components
//
// 1. Upsert: "find by natural key, create or update if changed". Creation is a
//    conditional insert (insert with conflict-do-nothing on the unique natural key)
//    followed by a re-read, so two concurrent runs can never produce two rows for the
//    same key. Updates only happen when at least one attribute differs from the stored
//    value, which keeps modification timestamps stable on idempotent re-runs.
//    FindOrCreate shares the conditional insert but never updates an existing row.
//
// 2. IDList and MergeIDs: a serialized, de-duplicated list of integer ids stored in a
//    single column. Malformed or missing values decode as an empty list and merges are
//    unions, so a list never shrinks.
//
// 3. Link: insert-or-ignore of explicit join rows, giving set semantics enforced by the
//    composite primary key of the join table.
//
// 4. Index: a TTL cache with stampede protection for read-only reference lookups
//    (e.g. country code to id).
//
// # Usage Example
//
//	row, outcome, err := reconcile.Upsert[catalog.Operator](ctx, tx,
//	    reconcile.Attrs{"name": "Acme Mobile"},
//	    reconcile.Attrs{"network_type": "4G", "esim_id": merged},
//	)
//	if err != nil {
//	    return err
//	}
//	tally.Add("operator", outcome)
package reconcile
