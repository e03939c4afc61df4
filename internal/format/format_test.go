package format_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/linkinator-go/linkinator/internal/format"
	"github.com/linkinator-go/linkinator/internal/linkmodel"
	"github.com/stretchr/testify/require"
)

func sampleResult() linkmodel.CrawlResult {
	ok := linkmodel.NewLinkResult("https://example.com/", 200, linkmodel.StateOK, "", nil)
	broken := linkmodel.NewLinkResult("https://example.com/missing", 404, linkmodel.StateBroken,
		"https://example.com/", []linkmodel.AttemptDetail{{Status: 404, Message: "not found"}})
	return linkmodel.CrawlResult{Passed: false, Links: []linkmodel.LinkResult{ok, broken}}
}

func TestParseKind_AcceptsKnownFormatsCaseInsensitively(t *testing.T) {
	for _, raw := range []string{"text", "TEXT", "Json", "csv", "CSV"} {
		_, err := format.ParseKind(raw)
		require.NoError(t, err)
	}
}

func TestParseKind_RejectsUnknownFormat(t *testing.T) {
	_, err := format.ParseKind("xml")
	require.Error(t, err)
}

func TestWrite_TextListsEveryLinkAndSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.Write(&buf, sampleResult(), format.Text))
	out := buf.String()
	require.Contains(t, out, "OK")
	require.Contains(t, out, "BROKEN")
	require.Contains(t, out, "https://example.com/missing")
	require.Contains(t, out, "FAILED")
}

func TestWrite_JSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.Write(&buf, sampleResult(), format.JSON))

	var decoded struct {
		Passed bool `json:"passed"`
		Links  []struct {
			URL    string `json:"url"`
			Status int    `json:"status"`
			State  string `json:"state"`
		} `json:"links"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.False(t, decoded.Passed)
	require.Len(t, decoded.Links, 2)
	require.Equal(t, "https://example.com/", decoded.Links[0].URL)
	require.Equal(t, "OK", decoded.Links[0].State)
}

func TestWrite_CSVHeaderMatchesWireFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.Write(&buf, sampleResult(), format.CSV))

	r := csv.NewReader(strings.NewReader(buf.String()))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"url", "status", "state", "parent", "failureDetails"}, records[0])
	require.Equal(t, "https://example.com/missing", records[2][0])
	require.Equal(t, "BROKEN", records[2][2])
	require.Contains(t, records[2][4], `"Status":404`)
}
