package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/telsim/onboard/cache"
	"github.com/telsim/onboard/config"
)

var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

// NewDataSource picks the datasource by the configured driver. The memory
// driver backs demo deployments and tests; postgres is the durable default.
func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	if configuration.DataSource.Driver == config.DriverMemory {
		return NewMemoryDataSource(), nil
	}
	return GetDBConnection(configuration)
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}

		cacheInstance, errCache := cache.NewCache()
		if errCache != nil {
			log.Printf("Error creating cache: %v", errCache)
			// Continue without cache instead of failing completely.
		}

		instance = &Datasource{Conn: con, Cache: cacheInstance}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	err = createApplicationTable(db)
	if err != nil {
		return nil, err
	}
	err = createApplicationDocumentTable(db)
	if err != nil {
		return nil, err
	}
	err = createCheckResultTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// createApplicationTable creates a PostgreSQL table for the Application struct.
// The id column is plain BIGINT, not SERIAL: ids are assigned in application
// code as 1 + max(existing ids) so the numbering survives datasource swaps.
func createApplicationTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id BIGINT PRIMARY KEY,
			user_id TEXT NOT NULL,
			wizard_name TEXT NOT NULL,
			customer_type TEXT,
			status TEXT NOT NULL,
			sections JSONB NOT NULL,
			submitted_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			reviewed_by TEXT,
			reviewed_at TIMESTAMP,
			review_comment TEXT,
			rejection_reason TEXT,
			meta_data JSONB
		)
	`)
	log.Println(err)
	return err
}

// createApplicationDocumentTable creates a PostgreSQL table for uploaded documents.
func createApplicationDocumentTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS application_documents (
			id SERIAL PRIMARY KEY,
			document_id TEXT NOT NULL UNIQUE,
			application_id BIGINT NOT NULL REFERENCES applications(id),
			field TEXT NOT NULL,
			name TEXT NOT NULL,
			size BIGINT,
			mime_type TEXT,
			storage_path TEXT,
			uploaded_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}

// createCheckResultTable creates a PostgreSQL table for verification outcomes.
func createCheckResultTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS check_results (
			id SERIAL PRIMARY KEY,
			application_id BIGINT NOT NULL REFERENCES applications(id),
			reference TEXT NOT NULL,
			check_type TEXT NOT NULL,
			score INT NOT NULL,
			classification TEXT NOT NULL,
			checks JSONB,
			checked_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	log.Println(err)
	return err
}
