package services

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/gavinlouuu-kpt/pg-minio/internal/browse"
	"github.com/gavinlouuu-kpt/pg-minio/internal/errs"
	"github.com/gavinlouuu-kpt/pg-minio/internal/models"
	"github.com/gavinlouuu-kpt/pg-minio/internal/utils"
)

// imageExtensions is the set of object suffixes the grid will render.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImageKey reports whether an object key looks like a displayable image.
func IsImageKey(key string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(key))]
}

// MatchesSearch is the filter applied to object display names: empty term
// matches everything, otherwise a case-insensitive substring match.
func MatchesSearch(displayName, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(displayName), strings.ToLower(term))
}

// ListDirectory lists one level of a bucket's virtual hierarchy. Common
// prefixes become folder entries; leaf keys become image entries when their
// display name passes the search filter. Folders are never search-filtered.
// Both lists are sorted case-insensitively by display name so the output is
// deterministic regardless of backend ordering.
func ListDirectory(ctx context.Context, client StorageClient, bucket, path, search string) ([]models.FolderEntry, []models.ObjectEntry, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, errs.New(errs.KindNotFound, "bucket "+bucket+" does not exist")
	}

	prefix := browse.ToPrefix(path)
	raw, err := client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})
	if err != nil {
		return nil, nil, err
	}

	var folders []models.FolderEntry
	var objects []models.ObjectEntry
	seen := make(map[string]bool)

	for _, obj := range raw {
		// The folder-marker object for the prefix itself is not a child.
		if obj.Key == prefix {
			continue
		}

		rest := strings.TrimPrefix(obj.Key, prefix)

		if strings.HasSuffix(obj.Key, "/") || strings.Contains(rest, "/") {
			// Either a reported common prefix or a folder-marker object.
			childPrefix := prefix + strings.SplitN(rest, "/", 2)[0] + "/"
			if seen[childPrefix] {
				continue
			}
			seen[childPrefix] = true
			folders = append(folders, models.FolderEntry{
				Name:   browse.BaseName(childPrefix),
				Prefix: childPrefix,
			})
			continue
		}

		if !IsImageKey(obj.Key) {
			continue
		}
		if !MatchesSearch(rest, search) {
			continue
		}
		objects = append(objects, models.ObjectEntry{
			Key:             obj.Key,
			DisplayName:     rest,
			Size:            obj.Size,
			FormattedSize:   utils.FormatSize(obj.Size),
			LastModified:    obj.LastModified,
			ModifiedDisplay: utils.FormatModified(obj.LastModified),
		})
	}

	sort.Slice(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})
	sort.Slice(objects, func(i, j int) bool {
		return strings.ToLower(objects[i].DisplayName) < strings.ToLower(objects[j].DisplayName)
	})

	return folders, objects, nil
}
