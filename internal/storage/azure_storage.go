package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	apperrors "github.com/anime-shed/image-quality-go/internal/errors"
)

const blobHostSuffix = ".blob.core.windows.net"

// IsBlobURL reports whether source points at Azure Blob Storage.
func IsBlobURL(source string) bool {
	parts, err := sas.ParseURL(source)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parts.Host), blobHostSuffix)
}

// BlobLocation names one blob inside a storage account.
type BlobLocation struct {
	Container string
	Blob      string
}

// ParseBlobURL splits https://<account>.blob.core.windows.net/<container>/<blob>.
func ParseBlobURL(source string) (BlobLocation, error) {
	parts, err := sas.ParseURL(source)
	if err != nil {
		return BlobLocation{}, apperrors.NewValidationError("invalid blob URL", err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return BlobLocation{}, apperrors.NewValidationError("blob URL must name a container and a blob", nil)
	}
	return BlobLocation{Container: parts.ContainerName, Blob: parts.BlobName}, nil
}

// AzureBlobFetcher downloads blobs with shared-key credentials.
type AzureBlobFetcher struct {
	client  *azblob.Client
	tempDir string
}

// NewAzureBlobFetcher creates a fetcher for one storage account.
func NewAzureBlobFetcher(accountName, accountKey, tempDir string) (*AzureBlobFetcher, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("invalid azure credentials: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s%s", accountName, blobHostSuffix),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure blob client: %w", err)
	}

	return &AzureBlobFetcher{client: client, tempDir: tempDir}, nil
}

// Fetch downloads the blob into a temp file carrying the blob's extension.
func (s *AzureBlobFetcher) Fetch(ctx context.Context, source string) (*TempFile, error) {
	loc, err := ParseBlobURL(source)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(s.tempDir, "blob-*"+strings.ToLower(path.Ext(loc.Blob)))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to create temp file", err)
	}
	tmp := &TempFile{Path: f.Name()}

	_, err = s.client.DownloadFile(ctx, loc.Container, loc.Blob, f, nil)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		tmp.Remove()
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("blob download cancelled", err)
		}
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("download of %s/%s failed", loc.Container, loc.Blob), err)
	}
	return tmp, nil
}
