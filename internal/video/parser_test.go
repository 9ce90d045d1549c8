package video

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialDataParser_Parse(t *testing.T) {
	page := resultsPage(t,
		fakeVideo{ID: "vid00000001", Title: "First", Description: "one", Length: "4:05"},
		fakeVideo{ID: "vid00000002", Title: "Second", Description: "two", Length: "1:00:00"},
	)

	got, err := NewInitialDataParser().Parse(page)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "vid00000001", got[0].ID)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "one", got[0].Description)
	assert.InDelta(t, 4.0833, got[0].DurationMinutes, 0.001)
	assert.Equal(t, "https://i.ytimg.com/vi/vid00000001/hq720.jpg", got[0].ThumbnailURL)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid00000001", got[0].URL)
	assert.Equal(t, 60.0, got[1].DurationMinutes)
}

func TestInitialDataParser_WindowMarker(t *testing.T) {
	blob := initialData(t, fakeVideo{ID: "vid00000003", Title: "Third", Length: "5:00"})
	page := []byte(fmt.Sprintf(`<script>window["ytInitialData"] = %s;</script>`, blob))

	got, err := NewInitialDataParser().Parse(page)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Third", got[0].Title)
}

func TestInitialDataParser_DescriptionSnippetFallback(t *testing.T) {
	page := []byte(`<script>var ytInitialData = {"contents":[{"videoRenderer":{
		"videoId":"vid00000004",
		"title":{"simpleText":"Fallback"},
		"descriptionSnippet":{"runs":[{"text":"short "},{"text":"snippet"}]},
		"lengthText":{"simpleText":"3:30"}}}]};</script>`)

	got, err := NewInitialDataParser().Parse(page)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "short snippet", got[0].Description)
	assert.Equal(t, "", got[0].ThumbnailURL)
}

func TestInitialDataParser_Errors(t *testing.T) {
	_, err := NewInitialDataParser().Parse([]byte("<html>nothing here</html>"))
	assert.ErrorIs(t, err, ErrMarkerNotFound)

	_, err = NewInitialDataParser().Parse([]byte("<script>var ytInitialData = {broken;</script>"))
	assert.ErrorIs(t, err, ErrMalformedPage)

	_, err = NewInitialDataParser().Parse([]byte("<script>var ytInitialData = ;</script>"))
	assert.ErrorIs(t, err, ErrMalformedPage)
}

func TestInitialDataParser_SkipsIncompleteRenderers(t *testing.T) {
	page := []byte(`<script>var ytInitialData = {"a":[
		{"videoRenderer":{"title":{"simpleText":"no id"}}},
		{"videoRenderer":{"videoId":"vid00000005"}},
		{"videoRenderer":{"videoId":"vid00000006","title":{"simpleText":"ok"}}}
	]};</script>`)

	got, err := NewInitialDataParser().Parse(page)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "vid00000006", got[0].ID)
	assert.Zero(t, got[0].DurationMinutes)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "45", want: 0.75},
		{in: "3:00", want: 3},
		{in: "12:30", want: 12.5},
		{in: "1:02:00", want: 62},
		{in: "", wantErr: true},
		{in: "live", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 0.0001, tt.in)
	}
}
