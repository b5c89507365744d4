// Package api provides the REST client for the news server.
//
// Endpoints:
//   - GET  /api/news/{category}       article list (404 when the category has none)
//   - GET  /api/categories            {"categories": [...]}
//   - GET  /api/facts                 list of facts
//   - POST /api/detect-fake-news?text {"is_fake": {prediction, confidence, message}}
//
// The socket endpoint lives at /ws on the same host; see package connection.
package api
