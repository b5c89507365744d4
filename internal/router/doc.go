// Package router is the Message Dispatcher.
//
// Inbound frames are decoded into envelopes and routed by type to a
// RenderSink:
//
//	fact              -> RenderFact
//	news              -> RenderNewsList, or "No news articles found" when empty
//	error             -> RenderError
//	fake_news_result  -> RenderVerdict
//	anything else     -> logged and ignored
//
// Outbound user actions are encoded and handed to a Sender. Free text is
// classified with Classify. When the Sender is not connected the user is
// told so and a reconnect is requested.
package router
