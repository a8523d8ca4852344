//go:build integration
// +build integration

// Package integration drives the cart and catalog services end to end.
//
// The services come from compose.yaml at the repository root:
//
//	docker compose up -d --build
//	go test -tags integration ./integration
//
// E2E_CART_URL and E2E_CATALOG_URL override the default localhost ports.
// With E2E_RESTART_CART=1 the cart container is restarted mid-test to check
// that a session's cart is reloaded from Redis.
package integration
