package service

import "prwatch/internal/ghclient"

// Ensure Client implements the Fetcher interface.
var _ Fetcher = (*ghclient.Client)(nil)
