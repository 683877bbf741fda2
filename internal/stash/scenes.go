package stash

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ScenePaths carries the asset URLs the host serves for a scene.
type ScenePaths struct {
	Screenshot string `json:"screenshot"`
}

// Scene is one library entry as returned by findScenes.
type Scene struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Paths ScenePaths `json:"paths"`
}

// HasScreenshot reports whether the host serves a cover image for the scene.
func (s Scene) HasScreenshot() bool {
	return strings.TrimSpace(s.Paths.Screenshot) != ""
}

// DisplayTitle returns the scene title, falling back to the scene ID for
// untitled entries so log lines and reports stay identifiable.
func (s Scene) DisplayTitle() string {
	if title := strings.TrimSpace(s.Title); title != "" {
		return title
	}
	return "scene " + s.ID
}

// SceneList couples the host's total count with the returned scenes.
type SceneList struct {
	Count  int
	Scenes []Scene
}

const findScenesQuery = `
query FindScenes($filter: FindFilterType) {
  findScenes(filter: $filter) {
    count
    scenes {
      id
      title
      paths {
        screenshot
      }
    }
  }
}`

const sceneUpdateMutation = `
mutation SceneUpdate($input: SceneUpdateInput!) {
  sceneUpdate(input: $input) {
    id
  }
}`

const versionQuery = `
query Version {
  version {
    version
  }
}`

// FindScenes enumerates every scene in the library in a single unpaged
// request. Any failure here means the sweep cannot start.
func (c *Client) FindScenes(ctx context.Context) (*SceneList, error) {
	var payload struct {
		FindScenes struct {
			Count  int     `json:"count"`
			Scenes []Scene `json:"scenes"`
		} `json:"findScenes"`
	}

	variables := map[string]any{
		"filter": map[string]any{"per_page": -1},
	}
	if err := c.execute(ctx, findScenesQuery, variables, &payload); err != nil {
		return nil, fmt.Errorf("find scenes: %w", err)
	}

	return &SceneList{
		Count:  payload.FindScenes.Count,
		Scenes: payload.FindScenes.Scenes,
	}, nil
}

// ReplaceScreenshot uploads image as the scene's new cover. The host accepts
// cover data inline on the sceneUpdate mutation as a base64 data URI; the
// filename's extension selects the declared MIME type.
func (c *Client) ReplaceScreenshot(ctx context.Context, sceneID string, image []byte, filename string) error {
	if strings.TrimSpace(sceneID) == "" {
		return fmt.Errorf("%w: scene id required", ErrUpload)
	}
	if len(image) == 0 {
		return fmt.Errorf("%w: empty image", ErrUpload)
	}

	var payload struct {
		SceneUpdate struct {
			ID string `json:"id"`
		} `json:"sceneUpdate"`
	}

	variables := map[string]any{
		"input": map[string]any{
			"id":          sceneID,
			"cover_image": dataURI(image, filename),
		},
	}
	if err := c.execute(ctx, sceneUpdateMutation, variables, &payload); err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if payload.SceneUpdate.ID == "" {
		return fmt.Errorf("%w: host did not confirm update", ErrUpload)
	}
	return nil
}

// Version reports the host's version string. Used by connectivity checks.
func (c *Client) Version(ctx context.Context) (string, error) {
	var payload struct {
		Version struct {
			Version string `json:"version"`
		} `json:"version"`
	}
	if err := c.execute(ctx, versionQuery, nil, &payload); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return payload.Version.Version, nil
}

func dataURI(image []byte, filename string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}
