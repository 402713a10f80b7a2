// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or Bearer token) protecting every
//     route except the configured public prefixes.
//   - rayid: assigns a request id (RayID) to every request, stores it in the context
//     for logger.WithRayID and echoes it in the X-Ray-ID response header.
package middleware
