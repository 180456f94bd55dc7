// Package database - Handles all interaction with ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"

	"github.com/secinv/cpescan/model"
	"github.com/secinv/cpescan/util"
)

var logger = util.InitLogger() // setup the logger

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collections map[string]arangodb.Collection
	Database    arangodb.Database
}

// Define a struct to hold the index definition
type indexConfig struct {
	Collection string
	IdxName    string
	IdxField   string
	Unique     bool
}

var initDone = false          // has the data been initialized
var dbConnection DBConnection // database connection definition

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// InitializeDatabase is the function for connecting to the db engine, creating the database and collections
func InitializeDatabase() DBConnection {
	const initialInterval = 10 * time.Second
	const maxInterval = 2 * time.Minute

	var db arangodb.Database
	var collections map[string]arangodb.Collection
	const databaseName = "cpescan"

	ctx := context.Background()

	if initDone {
		return dbConnection
	}

	False := false
	True := true
	dbhost := util.GetEnvDefault("ARANGO_HOST", "localhost")
	dbport := util.GetEnvDefault("ARANGO_PORT", "8529")
	dbuser := util.GetEnvDefault("ARANGO_USER", "root")
	dbpass := util.GetEnvDefault("ARANGO_PASS", "")
	dburl := util.GetEnvDefault("ARANGO_URL", "http://"+dbhost+":"+dbport)

	var client arangodb.Client

	//
	// Database connection with backoff retry
	//

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = 0 // Set to 0 for indefinite retries

	err := backoff.RetryNotify(func() error {
		fmt.Println("Attempting to connect to ArangoDB")
		endpoint := connection.NewRoundRobinEndpoints([]string{dburl})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, dbuser, dbpass))

		client = arangodb.NewClient(conn)

		// Ask the version of the server
		versionInfo, err := client.Version(context.Background())
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'\n", versionInfo.Version, versionInfo.License)
		return nil
	}, bo, func(err error, _ time.Duration) {
		fmt.Printf("Retrying connection to ArangoDB: %v\n", err)
	})

	if err != nil {
		logger.Sugar().Fatalf("Backoff Error %v\n", err)
	}

	//
	// Database creation
	//

	exists := false
	dblist, _ := client.Databases(ctx)

	for _, dbinfo := range dblist {
		if dbinfo.Name() == databaseName {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		if db, err = client.GetDatabase(ctx, databaseName, &options); err != nil {
			logger.Sugar().Fatalf("Failed to get Database: %v", err)
		}
	} else {
		if db, err = client.CreateDatabase(ctx, databaseName, nil); err != nil {
			logger.Sugar().Fatalf("Failed to create Database: %v", err)
		}
	}

	//
	// Collection creation for document storage
	//

	collections = make(map[string]arangodb.Collection)
	collectionNames := []string{"report", "cpe"}

	for _, collectionName := range collectionNames {
		var col arangodb.Collection

		exists, _ = db.CollectionExists(ctx, collectionName)
		if exists {
			var options arangodb.GetCollectionOptions
			if col, err = db.GetCollection(ctx, collectionName, &options); err != nil {
				logger.Sugar().Fatalf("Failed to use collection: %v", err)
			}
		} else {
			if col, err = db.CreateCollection(ctx, collectionName, nil); err != nil {
				logger.Sugar().Fatalf("Failed to create collection: %v", err)
			}
		}

		collections[collectionName] = col
	}

	//
	// Index creation for document collections
	//

	idxList := []indexConfig{
		// A CPE string appears once, as a hub shared by all reports citing it
		{Collection: "cpe", IdxName: "cpe_string", IdxField: "cpe", Unique: true},
		// Report lookup by host and report ID
		{Collection: "report", IdxName: "report_hostname", IdxField: "hostname"},
		{Collection: "report", IdxName: "report_id", IdxField: "report_id", Unique: true},
	}

	for _, idx := range idxList {
		found := false

		if indexes, err := collections[idx.Collection].Indexes(ctx); err == nil {
			for _, index := range indexes {
				if idx.IdxName == index.Name {
					found = true
					break
				}
			}
		}

		if !found {
			unique := &False
			if idx.Unique {
				unique = &True
			}
			indexOptions := arangodb.CreatePersistentIndexOptions{
				Unique: unique,
				Sparse: &False,
				Name:   idx.IdxName,
			}

			_, _, err = collections[idx.Collection].EnsurePersistentIndex(ctx, []string{idx.IdxField}, &indexOptions)
			if err != nil {
				logger.Sugar().Fatalln("Error creating index:", err)
			}
		}
	}

	initDone = true

	dbConnection = DBConnection{
		Database:    db,
		Collections: collections,
	}

	return dbConnection
}

// FindReportByID checks if a report was already stored.
// Returns the document key if found, empty string if not found
func FindReportByID(ctx context.Context, db arangodb.Database, reportID string) (string, error) {
	query := `
		FOR r IN report
			FILTER r.report_id == @report_id
			LIMIT 1
			RETURN r._key
	`
	bindVars := map[string]interface{}{
		"report_id": reportID,
	}

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return "", err
	}
	defer cursor.Close()

	if cursor.HasMore() {
		var key string
		_, err := cursor.ReadDocument(ctx, &key)
		if err != nil {
			return "", err
		}
		return key, nil
	}

	return "", nil
}

// StoreReport persists a scan report and upserts every distinct CPE string
// into the cpe hub collection so reports citing the same component share one
// hub document.
func StoreReport(ctx context.Context, dbConn DBConnection, report *model.ScanReport) (string, error) {
	meta, err := dbConn.Collections["report"].CreateDocument(ctx, report)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	upsert := `
		UPSERT { cpe: @cpe }
		INSERT { cpe: @cpe, vendor: @vendor, product: @product, objtype: "CPE" }
		UPDATE {}
		IN cpe
	`
	for _, rec := range report.Records {
		cursor, err := dbConn.Database.Query(ctx, upsert, &arangodb.QueryOptions{
			BindVars: map[string]interface{}{
				"cpe":     rec.CPEString,
				"vendor":  rec.Vendor,
				"product": rec.Product,
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to upsert cpe %s: %w", rec.CPEString, err)
		}
		cursor.Close()
	}

	return meta.Key, nil
}

// ReportListItem represents a simplified report for list views
type ReportListItem struct {
	Key      string    `json:"_key"`
	ReportID string    `json:"report_id"`
	Hostname string    `json:"hostname"`
	ScanTime time.Time `json:"scantime"`
	Records  int       `json:"records"`
}

// ListReports returns stored reports, newest first.
func ListReports(ctx context.Context, db arangodb.Database) ([]ReportListItem, error) {
	query := `
		FOR r IN report
			SORT r.scantime DESC
			RETURN {
				_key: r._key,
				report_id: r.report_id,
				hostname: r.hostname,
				scantime: r.scantime,
				records: LENGTH(r.records)
			}
	`

	cursor, err := db.Query(ctx, query, &arangodb.QueryOptions{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	items := []ReportListItem{}
	for cursor.HasMore() {
		var item ReportListItem
		if _, err := cursor.ReadDocument(ctx, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}
