// Package session provides in-memory storage for generated mazes.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short UUID-derived maze IDs
//   - Case-insensitive lookup
//   - Expiry of mazes that have not been accessed recently
//
// Core Types:
//
// Manager satisfies service.SessionManager. Each session holds the generated
// grid, the parameters it was generated from, and the cached solution once
// the maze has been solved.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", service.MazeParams{Size: 20, Seed: 42})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// Mazes live only in memory. CleanupExpiredSessions drops the ones whose last
// access is older than the given age; the server runs it on a timer.
package session
