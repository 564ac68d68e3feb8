// Package google supplies OAuth2 credentials for the Gmail and Calendar clients.
//
// Credentials come from an authorized-user record on disk, the JSON written by
// Google's installed-app tooling (token, refresh_token, token_uri, client_id,
// client_secret, scopes, expiry). Expired access tokens are refreshed through
// golang.org/x/oauth2 and written back to the same file. The interactive
// consent flow that produces the file is out of scope.
package google
