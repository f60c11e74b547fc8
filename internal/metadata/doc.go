// Package metadata persists per-entry and per-folder appearance settings
// (colour, icon, favicon) in a JSON sidecar at the store root:
//
//	<store>/.secrets_metadata.json
//
// The document has two maps keyed by store path:
//
//	{
//	  "folders":   {"work": {"color": "#3584e4", "icon": "folder-symbolic"}},
//	  "passwords": {"work/vpn": {"color": "#9141ac", "icon": "dialog-password-symbolic", "favicon_data": null}}
//	}
//
// Every mutation rewrites the whole document atomically. A missing or
// unreadable sidecar behaves as an empty document.
package metadata
