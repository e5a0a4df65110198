package recipeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogServer serves total synthetic rows under /{key}/COOKRCP01/json/{start}/{end}/
// and records every requested range.
type catalogServer struct {
	*httptest.Server
	total int

	mu       sync.Mutex
	requests []string
}

func newCatalogServer(t *testing.T, total int) *catalogServer {
	t.Helper()
	cs := &catalogServer{total: total}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *catalogServer) handle(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// testkey/COOKRCP01/json/{start}/{end}
	if len(parts) != 5 || parts[1] != DefaultService || parts[2] != "json" {
		http.NotFound(w, r)
		return
	}
	start, _ := strconv.Atoi(parts[3])
	end, _ := strconv.Atoi(parts[4])

	cs.mu.Lock()
	cs.requests = append(cs.requests, parts[3]+"-"+parts[4])
	cs.mu.Unlock()

	if start > cs.total {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"RESULT": map[string]string{"CODE": ResultNoData, "MSG": "해당하는 데이터가 없습니다."},
		})
		return
	}
	if end > cs.total {
		end = cs.total
	}
	rows := make([]map[string]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		rows = append(rows, map[string]string{
			"RCP_SEQ":        strconv.Itoa(i),
			"RCP_NM":         fmt.Sprintf("레시피 %d", i),
			"RCP_PAT2":       "반찬",
			"RCP_PARTS_DTLS": "두부 1모, 소금 약간",
			"MANUAL01":       "두부를 썬다.",
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		DefaultService: map[string]any{
			"total_count": strconv.Itoa(cs.total),
			"row":         rows,
			"RESULT":      map[string]string{"CODE": ResultOK, "MSG": "정상처리되었습니다."},
		},
	})
}

func (cs *catalogServer) ranges() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]string(nil), cs.requests...)
}

func newTestClient(baseURL string, pageSize int) *Client {
	return NewClient(Options{BaseURL: baseURL, Key: "testkey", PageSize: pageSize})
}

func TestPageURL(t *testing.T) {
	c := NewClient(Options{Key: "abc123"})
	assert.Equal(t, "http://openapi.foodsafetykorea.go.kr/api/abc123/COOKRCP01/json/1/1000/", c.PageURL(1, 1000))
	assert.Equal(t, DefaultPageSize, c.PageSize())

	c = NewClient(Options{BaseURL: "http://localhost:9000/api/", Key: "k", Service: "OTHER"})
	assert.Equal(t, "http://localhost:9000/api/k/OTHER/json/1001/2000/", c.PageURL(1001, 2000))
}

func TestFetchAllPagination(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		pageSize int
		ranges   []string
	}{
		{
			name:     "short last page",
			total:    25,
			pageSize: 10,
			ranges:   []string{"1-10", "11-20", "21-30"},
		},
		{
			name:     "exact multiple needs one empty request",
			total:    20,
			pageSize: 10,
			ranges:   []string{"1-10", "11-20", "21-30"},
		},
		{
			name:     "single short page",
			total:    3,
			pageSize: 10,
			ranges:   []string{"1-10"},
		},
		{
			name:     "empty catalog",
			total:    0,
			pageSize: 10,
			ranges:   []string{"1-10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCatalogServer(t, tt.total)
			c := newTestClient(srv.URL, tt.pageSize)

			recipes, err := c.FetchAll(context.Background())
			require.NoError(t, err)
			require.Len(t, recipes, tt.total)
			assert.Equal(t, tt.ranges, srv.ranges())

			for i, r := range recipes {
				assert.Equal(t, strconv.Itoa(i+1), r.Seq, "catalog order")
			}
		})
	}
}

func TestPagesStopsWhenConsumerStops(t *testing.T) {
	srv := newCatalogServer(t, 100)
	c := newTestClient(srv.URL, 10)

	for page, err := range c.Pages(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, 1, page.Start)
		assert.Equal(t, 10, page.End)
		break
	}
	assert.Equal(t, []string{"1-10"}, srv.ranges())
}

func TestFetchAllDiscardsPartialResultsOnError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 2 {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
			return
		}
		rows := []map[string]string{
			{"RCP_SEQ": "1", "RCP_NM": "a", "RCP_PAT2": "밥", "RCP_PARTS_DTLS": "쌀"},
			{"RCP_SEQ": "2", "RCP_NM": "b", "RCP_PAT2": "밥", "RCP_PARTS_DTLS": "쌀"},
		}
		_ = json.NewEncoder(w).Encode(map[string]any{DefaultService: map[string]any{"row": rows}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	recipes, err := c.FetchAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, recipes)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrDecode))

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 3, fe.Start)
	assert.Equal(t, 4, fe.End)
	assert.Equal(t, int32(2), calls.Load(), "no retry")
}

func TestFetchPageDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"missing container", `{"SOMETHING": {}}`},
		{"api error result", `{"RESULT": {"CODE": "ERROR-300", "MSG": "필수 값이 누락되어 있습니다."}}`},
		{"row missing name", `{"COOKRCP01": {"row": [{"RCP_SEQ": "1", "RCP_PAT2": "밥", "RCP_PARTS_DTLS": "쌀"}]}}`},
		{"row null name", `{"COOKRCP01": {"row": [{"RCP_SEQ": "1", "RCP_NM": null, "RCP_PAT2": "밥", "RCP_PARTS_DTLS": "쌀"}]}}`},
		{"row wrong type", `{"COOKRCP01": {"row": [{"RCP_SEQ": 1, "RCP_NM": "a", "RCP_PAT2": "밥", "RCP_PARTS_DTLS": "쌀"}]}}`},
		{"row not array", `{"COOKRCP01": {"row": "nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, 10).FetchPage(context.Background(), 1, 10)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
		})
	}
}

func TestFetchPageNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, 10).FetchPage(context.Background(), 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestDecodeRecipeFields(t *testing.T) {
	body := `{"COOKRCP01": {"total_count": "1", "row": [{
		"RCP_SEQ": "28",
		"RCP_NM": "새우 두부 계란찜",
		"RCP_PAT2": "반찬",
		"RCP_PARTS_DTLS": "새우두부계란찜\n연두부 75g(3/4모), 칵테일새우 20g(5마리), 달걀 30g(1/2개)",
		"INFO_ENG": "220",
		"INFO_CAR": "3",
		"INFO_PRO": "14",
		"INFO_FAT": "17",
		"INFO_NA": "99",
		"ATT_FILE_NO_MAIN": "http://www.foodsafetykorea.go.kr/uploadimg/main.png",
		"MANUAL01": "1. 손질된 새우를 끓는 물에 데친다.",
		"MANUAL_IMG01": "http://img/1.png",
		"MANUAL02": "2. 연두부, 달걀, 생크림을 믹서에 간다.",
		"MANUAL_IMG02": "",
		"MANUAL03": "3. 찜기에 찐다.",
		"MANUAL_IMG03": "http://img/3.png",
		"MANUAL04": "",
		"MANUAL_IMG04": "http://img/orphan.png",
		"MANUAL05": "5. 완성.",
		"MANUAL_IMG05": ""
	}]}}`

	c := NewClient(Options{})
	recipes, err := c.decodePage([]byte(body))
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "28", r.Seq)
	assert.Equal(t, "새우 두부 계란찜", r.Name)
	assert.Equal(t, "반찬", r.Category)
	assert.Equal(t, Nutrition{Energy: "220", Carbs: "3", Protein: "14", Fat: "17", Sodium: "99"}, r.Nutrition)
	assert.Equal(t, "http://www.foodsafetykorea.go.kr/uploadimg/main.png", r.MainImage)

	assert.Equal(t, []string{
		"1. 손질된 새우를 끓는 물에 데친다.",
		"2. 연두부, 달걀, 생크림을 믹서에 간다.",
		"3. 찜기에 찐다.",
		"5. 완성.",
	}, r.StepTexts)
	assert.Equal(t, []string{"http://img/1.png", "", "http://img/3.png"}, r.StepImages)
	assert.LessOrEqual(t, len(r.StepImages), len(r.StepTexts))

	steps := r.Steps()
	require.Len(t, steps, 4)
	assert.Equal(t, Step{Number: 3, Text: "3. 찜기에 찐다.", Image: "http://img/3.png"}, steps[2])
	assert.Equal(t, "", steps[3].Image)
}

func TestDecodeOptionalFieldsAbsent(t *testing.T) {
	body := `{"COOKRCP01": {"row": [{"RCP_SEQ": "1", "RCP_NM": "밥", "RCP_PAT2": "밥", "RCP_PARTS_DTLS": "쌀", "INFO_ENG": null}]}}`

	recipes, err := NewClient(Options{}).decodePage([]byte(body))
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, Nutrition{}, recipes[0].Nutrition)
	assert.Empty(t, recipes[0].MainImage)
	assert.Nil(t, recipes[0].StepTexts)
	assert.Nil(t, recipes[0].StepImages)
}
