package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rickgao/newsdesk/internal/model"
)

// GetNews fetches articles for a category. A 404 or an empty list is
// reported as ErrEmptyResult.
func (c *Client) GetNews(ctx context.Context, category string) ([]model.Article, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fmt.Errorf("get news: category is required")
	}

	var articles []model.Article
	if err := c.get(ctx, "/api/news/"+url.PathEscape(category), nil, &articles); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get news %s: %w", category, ErrEmptyResult)
		}
		return nil, fmt.Errorf("get news %s: %w", category, err)
	}

	if len(articles) == 0 {
		return nil, fmt.Errorf("get news %s: %w", category, ErrEmptyResult)
	}

	for i := range articles {
		articles[i] = articles[i].WithDefaults()
	}
	return articles, nil
}

// GetCategories fetches the list of news categories.
func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	var resp CategoriesResponse
	if err := c.get(ctx, "/api/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return resp.Categories, nil
}

// GetFacts fetches facts.
func (c *Client) GetFacts(ctx context.Context) ([]string, error) {
	var facts FactList
	if err := c.get(ctx, "/api/facts", nil, &facts); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get facts: %w", ErrEmptyResult)
		}
		return nil, fmt.Errorf("get facts: %w", err)
	}
	if len(facts) == 0 {
		return nil, fmt.Errorf("get facts: %w", ErrEmptyResult)
	}
	return facts, nil
}

// DetectFakeNews asks the server to classify text.
func (c *Client) DetectFakeNews(ctx context.Context, text string) (*model.Verdict, error) {
	query := url.Values{}
	query.Set("text", text)

	var resp DetectResponse
	if err := c.post(ctx, "/api/detect-fake-news", query, &resp); err != nil {
		return nil, fmt.Errorf("detect fake news: %w", err)
	}
	return &resp.IsFake, nil
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
