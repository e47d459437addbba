// =============================================================================
// Ticket Counter - Main Entry Point
// =============================================================================
//
// USAGE:
//   tickets buy             - Choose tickets and record purchases
//   tickets catalog         - Browse the ticket catalog
//   tickets purchases       - List or export recorded purchases
//   tickets version         - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Catalog, session, prompt and store logic
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ticket-counter/cmd"
)

func main() {
	cmd.Execute()
}
