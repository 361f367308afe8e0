// main.go
//
// Bluefin CRM: contacts, opportunities, calendar and accounts for a single advisor
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of bluefin-crm.
// bluefin-crm is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// bluefin-crm is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with bluefin-crm.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/bluefin-crm/internal/config"
	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/logging"
	"github.com/localnerve/bluefin-crm/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// stdout carries the JSON result, so keep log output terse
	logger, err := logging.New("warn", "console", "healthcheck")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	result := services.HealthCheck(cfg, db, logger)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
