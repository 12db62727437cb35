package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement at startup.  MySQL's driver
// rejects multi-statement strings by default, so each table gets its
// own entry.  Order matters because of the foreign keys.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS airlines (
		code CHAR(2) PRIMARY KEY,
		name VARCHAR(60) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS airports (
		code CHAR(3) PRIMARY KEY,
		name VARCHAR(80) NOT NULL,
		city VARCHAR(60) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		airline_code CHAR(2) NOT NULL,
		flight_number VARCHAR(6) NOT NULL,
		origin CHAR(3) NOT NULL,
		destination CHAR(3) NOT NULL,
		depart_time TIME NOT NULL,
		arrive_time TIME NOT NULL,
		equipment VARCHAR(10) DEFAULT 'B737',
		duration_mins INT NOT NULL,
		UNIQUE KEY uq_flight (airline_code, flight_number),
		KEY idx_route (origin, destination),
		CONSTRAINT fk_flight_airline FOREIGN KEY (airline_code) REFERENCES airlines(code),
		CONSTRAINT fk_flight_origin FOREIGN KEY (origin) REFERENCES airports(code),
		CONSTRAINT fk_flight_dest FOREIGN KEY (destination) REFERENCES airports(code)
	)`,
	`CREATE TABLE IF NOT EXISTS fare_classes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		flight_id BIGINT UNSIGNED NOT NULL,
		class_code CHAR(1) NOT NULL,
		total_seats INT NOT NULL,
		sold_seats INT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_fare_class (flight_id, class_code),
		CONSTRAINT fk_fare_flight FOREIGN KEY (flight_id) REFERENCES flights(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS pnrs (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		record_locator CHAR(6) NOT NULL,
		status VARCHAR(10) DEFAULT 'ACTIVE',
		received_from VARCHAR(40),
		ticketing VARCHAR(40),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_locator (record_locator)
	)`,
	`CREATE TABLE IF NOT EXISTS passengers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		pnr_id BIGINT UNSIGNED NOT NULL,
		seq_number VARCHAR(5) NOT NULL,
		last_name VARCHAR(40) NOT NULL,
		first_name VARCHAR(40) NOT NULL,
		title VARCHAR(10),
		UNIQUE KEY uq_pax_seq (pnr_id, seq_number),
		KEY idx_pax_name (last_name, first_name),
		CONSTRAINT fk_pax_pnr FOREIGN KEY (pnr_id) REFERENCES pnrs(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS segments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		pnr_id BIGINT UNSIGNED NOT NULL,
		flight_id BIGINT UNSIGNED NOT NULL,
		seg_number INT NOT NULL,
		travel_date DATE NOT NULL,
		class_code CHAR(1) NOT NULL,
		status CHAR(2) NOT NULL DEFAULT 'HK',
		num_passengers INT NOT NULL DEFAULT 1,
		UNIQUE KEY uq_seg_number (pnr_id, seg_number),
		CONSTRAINT fk_seg_pnr FOREIGN KEY (pnr_id) REFERENCES pnrs(id) ON DELETE CASCADE,
		CONSTRAINT fk_seg_flight FOREIGN KEY (flight_id) REFERENCES flights(id)
	)`,
	`CREATE TABLE IF NOT EXISTS phones (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		pnr_id BIGINT UNSIGNED NOT NULL,
		phone_type CHAR(1) NOT NULL DEFAULT 'H',
		number VARCHAR(20) NOT NULL,
		CONSTRAINT fk_phone_pnr FOREIGN KEY (pnr_id) REFERENCES pnrs(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS pnr_history (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		pnr_id BIGINT UNSIGNED NOT NULL,
		action VARCHAR(120) NOT NULL,
		agent VARCHAR(20) DEFAULT 'GTR001',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_hist_pnr FOREIGN KEY (pnr_id) REFERENCES pnrs(id) ON DELETE CASCADE
	)`,
}

// Migrate creates every table the simulator needs.  Statements are
// idempotent, so calling this on every boot is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
