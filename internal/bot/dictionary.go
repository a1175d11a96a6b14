package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"morse-mastery/config"
)

// Dictionary 词典查询接口，便于测试替换
type Dictionary interface {
	// Lookup 查询单词释义，查不到时返回错误
	Lookup(ctx context.Context, word string) (string, error)
}

// httpDictionary 基于 dictionaryapi.dev 的词典实现
type httpDictionary struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDictionary 创建词典客户端
func NewHTTPDictionary(cfg config.BotConfig) Dictionary {
	return &httpDictionary{
		baseURL: cfg.DictionaryURL,
		client:  &http.Client{Timeout: cfg.DictionaryTimeout},
	}
}

// dictionaryEntry dictionaryapi.dev 返回结构，只取需要的字段
type dictionaryEntry struct {
	Meanings []struct {
		Definitions []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func (d *httpDictionary) Lookup(ctx context.Context, word string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		d.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary lookup for %q returned status %d", word, resp.StatusCode)
	}

	var entries []dictionaryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", err
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 || len(entries[0].Meanings[0].Definitions) == 0 {
		return "", fmt.Errorf("no definition found for %q", word)
	}
	return entries[0].Meanings[0].Definitions[0].Definition, nil
}
