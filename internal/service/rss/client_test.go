package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"AntVillage/internal/service/cache"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>검색 결과</title>
<item>
  <title>삼성전자, 신형 반도체 공개</title>
  <link>https://news.example.com/1</link>
  <description>&lt;a href="x"&gt;삼성전자&lt;/a&gt;가  신형   반도체를 공개했다.</description>
  <pubDate>Mon, 17 Aug 2026 09:30:00 +0900</pubDate>
  <source>연합뉴스</source>
</item>
<item>
  <title>코스피 상승 마감</title>
  <link>https://news.example.com/2</link>
  <description>코스피가 상승 마감했다.</description>
  <pubDate>bad date</pubDate>
  <source>한국경제</source>
</item>
<item>
  <title>세 번째 기사</title>
  <link>https://news.example.com/3</link>
  <description>본문</description>
</item>
</channel>
</rss>`

func TestFetchNewsParsesFeed(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		require.Equal(t, "삼성전자", r.URL.Query().Get("q"))
		require.Equal(t, "ko", r.URL.Query().Get("hl"))
		require.Equal(t, "KR:ko", r.URL.Query().Get("ceid"))
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeout(2*time.Second), WithCache(cache.NewTTLCache(), time.Minute))

	items, err := c.FetchNews(context.Background(), "삼성전자", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	require.Equal(t, "삼성전자, 신형 반도체 공개", first.Title)
	require.Equal(t, "삼성전자 가 신형 반도체를 공개했다.", first.Summary) // tags stripped, whitespace collapsed
	require.Equal(t, "연합뉴스", first.Source)
	require.NotNil(t, first.PublishedAt)

	require.Nil(t, items[1].PublishedAt) // unparseable pubDate is dropped

	// Second fetch within the cache TTL does not hit the server.
	_, err = c.FetchNews(context.Background(), "삼성전자", 2)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchNewsZeroLimit(t *testing.T) {
	c := New("http://unused.invalid")
	items, err := c.FetchNews(context.Background(), "query", 0)
	require.NoError(t, err)
	require.Nil(t, items)
}

func TestFetchNewsMalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<rss><channel><item><title>unclosed"))
	}))
	defer srv.Close()

	c := New(srv.URL, WithCache(cache.NewTTLCache(), time.Minute))
	_, err := c.FetchNews(context.Background(), "q", 3)
	require.Error(t, err)
}

func TestFetchNewsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, WithCache(cache.NewTTLCache(), time.Minute))
	_, err := c.FetchNews(context.Background(), "q", 3)
	require.Error(t, err)
}

func TestCleanSummaryTruncatesRunes(t *testing.T) {
	long := strings.Repeat("가", maxSummaryLen+100)
	got := cleanSummary(long)
	require.Equal(t, maxSummaryLen, len([]rune(got)))
}

func TestParsePubDateFormats(t *testing.T) {
	for _, s := range []string{
		"Mon, 17 Aug 2026 09:30:00 +0900",
		"Mon, 17 Aug 2026 09:30:00 KST",
		"17 Aug 26 09:30 +0900",
	} {
		_, err := parsePubDate(s)
		require.NoError(t, err, s)
	}
	_, err := parsePubDate("")
	require.Error(t, err)
}
