// Package stash talks to a Stash server's GraphQL endpoint and asset routes.
//
// The client covers the three operations a sweep needs: enumerating scenes
// with their screenshot URLs, downloading a served screenshot, and replacing
// a scene's cover image through the sceneUpdate mutation. Errors are tagged
// with sentinel markers so callers can separate connection failures, which
// abort a run, from per-scene fetch and upload failures, which do not.
package stash
