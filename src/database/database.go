package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/paydash/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateTerminalsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		document TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS terminals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		serial TEXT NOT NULL,
		serial_normalized TEXT NOT NULL UNIQUE,
		model TEXT NOT NULL,
		status TEXT NOT NULL,
		client_id INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL,
		terminal_serial TEXT NOT NULL,
		client_id INTEGER DEFAULT 0,
		sale_date TEXT NOT NULL,
		gross_amount REAL NOT NULL,
		net_amount REAL NOT NULL,
		payment_type TEXT,
		status TEXT,
		card_brand TEXT,
		installments INTEGER DEFAULT 1,
		source TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateTerminalsTable adds columns introduced after the first release to
// databases created before them. The terminals table predates client
// assignment, so older files lack client_id.
func migrateTerminalsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='terminals'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'terminals' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'terminals' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'terminals' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'terminals' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(terminals)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'terminals'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'terminals': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'terminals'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'terminals': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'terminals'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'terminals': %v", err)
		}
		return
	}

	if _, ok := columnExists["client_id"]; !ok {
		_, err := DB.Exec("ALTER TABLE terminals ADD COLUMN client_id INTEGER DEFAULT 0")
		if err != nil {
			logger.L.Error("Error adding 'client_id' column to 'terminals' table", "error", err)
		} else {
			logger.L.Info("Added 'client_id' column to 'terminals' table")
		}
	}
	if _, ok := columnExists["model"]; !ok {
		_, err := DB.Exec("ALTER TABLE terminals ADD COLUMN model TEXT NOT NULL DEFAULT 'unknown model'")
		if err != nil {
			logger.L.Error("Error adding 'model' column to 'terminals' table", "error", err)
		} else {
			logger.L.Info("Added 'model' column to 'terminals' table")
		}
	}
}
