package storage

import (
	"context"
	"testing"
)

func TestIsBlobURL(t *testing.T) {
	testCases := []struct {
		url  string
		want bool
	}{
		{"https://acct.blob.core.windows.net/photos/raw/DSC_0042.NEF", true},
		{"https://ACCT.BLOB.CORE.WINDOWS.NET/photos/a.jpg", true},
		{"https://example.com/photos/a.jpg", false},
		{"/tmp/a.jpg", false},
	}
	for _, tc := range testCases {
		if got := IsBlobURL(tc.url); got != tc.want {
			t.Errorf("IsBlobURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestParseBlobURL(t *testing.T) {
	loc, err := ParseBlobURL("https://acct.blob.core.windows.net/photos/2024/trip/DSC_0042.NEF?sv=2021-01-01&sig=abc")
	if err != nil {
		t.Fatalf("ParseBlobURL: %v", err)
	}
	if loc.Container != "photos" || loc.Blob != "2024/trip/DSC_0042.NEF" {
		t.Errorf("unexpected location %+v", loc)
	}

	if _, err := ParseBlobURL("https://acct.blob.core.windows.net/photos"); err == nil {
		t.Error("expected an error when the blob name is missing")
	}
}

func TestNewAzureBlobFetcher_InvalidKey(t *testing.T) {
	if _, err := NewAzureBlobFetcher("acct", "not base64!", t.TempDir()); err == nil {
		t.Error("expected invalid key to be rejected")
	}
}

type recordingFetcher struct {
	name  string
	calls *[]string
}

func (r recordingFetcher) Fetch(_ context.Context, source string) (*TempFile, error) {
	*r.calls = append(*r.calls, r.name)
	return &TempFile{}, nil
}

func TestRouter(t *testing.T) {
	var calls []string
	httpF := recordingFetcher{name: "http", calls: &calls}
	azureF := recordingFetcher{name: "azure", calls: &calls}

	router := NewRouter(httpF, azureF)
	router.Fetch(context.Background(), "https://acct.blob.core.windows.net/c/a.jpg")
	router.Fetch(context.Background(), "https://example.com/a.jpg")

	noAzure := NewRouter(httpF, nil)
	noAzure.Fetch(context.Background(), "https://acct.blob.core.windows.net/c/a.jpg")

	want := []string{"azure", "http", "http"}
	if len(calls) != len(want) {
		t.Fatalf("expected %v, got %v", want, calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], calls[i])
		}
	}
}
