// Command inclusionctl runs schema migrations, catalog seeding and offline
// evaluation or matching jobs against the engine's database.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
