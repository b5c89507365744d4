// Package localstore persists client state on disk: the saved-articles
// list, per-article reactions and the theme preference.
//
// Values live under fixed string keys in a small key/value store. Two
// backends are available: Pebble (default) and SQLite.
//
//	savedArticles        JSON list of articles, most recent first
//	reaction_<id>        "like" or "dislike"
//	theme                "dark" or "light"
package localstore
