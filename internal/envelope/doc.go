// Package envelope defines the JSON messages exchanged over the news socket.
//
// Each direction is a closed set of types discriminated by the "type" field:
//
//	inbound:  fact, news, error, fake_news_result (anything else decodes to Unknown)
//	outbound: news, fact_request, fake_news_check
package envelope
