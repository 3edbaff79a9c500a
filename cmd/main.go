// cmd/main.go
package main

import (
	"bank-ledger-api/app"
)

// @title           Bank Ledger API
// @version         1.0
// @description     Multi-account bank ledger: accounts, deposits and withdrawals, balances.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
