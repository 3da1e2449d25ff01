// Package devmode provides the shared settings used when the client, the CLI
// and the MCP server talk to a local fake index service.
package devmode

// PrivatePass is the credential the local fake service accepts. It is
// intentionally obvious and must never be used against a real account.
const PrivatePass = "LOCAL_DEV_MODE_NOT_FOR_PRODUCTION"

// APIURL is where the fake service listens by default.
const APIURL = "http://localhost:11545"
