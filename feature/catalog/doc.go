// Package catalog implements the eSIM catalog sync feature.
//
// It reconciles the provider package catalog into the storefront tables:
//  1. Packages (esim_packages): one row per provider package code.
//  2. Operators: carriers shared by every package they serve, with the serialized
//     esim_id projection of their operator_packages rows.
//  3. Regions: created from the package location code, never renamed.
//  4. Countries: reference data, only read to resolve location codes.
//
// # Sync
//
// A run holds the sync lease, fetches a snapshot from a Source (the live API or an
// archived snapshot), and writes each package in its own transaction. A package
// that fails is rolled back and recorded with the stage it failed at; the run
// continues with the next one. Every run is persisted in catalog_sync_runs.
//
// # Components
//
//   - Syncer: Runs one pass and records its outcome.
//   - Archive: Stores raw snapshots in object storage and replays them.
//   - Scheduler: Runs a pass on a fixed interval.
//   - Service / Handler / Feature: HTTP surface registered through the loader.
//   - CheckIntegrity: Schema and projection drift checks used by the CLI.
//
// # HTTP Endpoints
//
//   - POST /catalog/sync : Run one pass (409 while another run holds the lease).
//   - GET /catalog/runs : List the latest runs (?limit=, default 20, max 100).
//   - GET /catalog/packages/:code : Get a package with its region, countries and operators.
package catalog
