package repos

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

//go:embed migrations
var migrationsFS embed.FS

// OpenDB connects, applies pending migrations and optionally seeds demo data.
func OpenDB(driver, dsn string, seed bool) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one connection: keeps :memory: databases alive and serializes writers
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			return nil, err
		}
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	if seed {
		if err := seedIfEmpty(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func migrate(db *sqlx.DB) error {
	dialect, dir := goose.DialectSQLite3, "migrations/sqlite"
	if isPostgres(db) {
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	}
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	results, err := p.Up(context.Background())
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	for _, r := range results {
		log.Printf("[migrate] applied version %d in %s", r.Source.Version, r.Duration)
	}
	return nil
}

func isPostgres(db sqlx.ExtContext) bool { return db.DriverName() == DriverPostgres }

// forUpdate returns the row-lock suffix where the dialect has one.
func forUpdate(db sqlx.ExtContext) string {
	if isPostgres(db) {
		return " FOR UPDATE"
	}
	return ""
}

// WithTx runs fn in a transaction, rolling back on any error.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// seedIfEmpty inserts demo users, catalog and variants into an empty database.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/catalog/variants")

	hash := func(raw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return string(h)
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	users := []struct {
		Username, Email string
		Admin           bool
	}{
		{"alice", "alice@shopfront.test", false},
		{"bob", "bob@shopfront.test", false},
		{"admin", "admin@shopfront.test", true},
	}
	for _, u := range users {
		tx.MustExec(tx.Rebind(`INSERT INTO users(username,email,password_hash,is_admin) VALUES(?,?,?,?)`),
			u.Username, u.Email, hash("Passw0rd!"), u.Admin)
	}

	tx.MustExec(`INSERT INTO categories(name,description) VALUES
	  ('Footwear','Shoes and boots'),
	  ('Apparel','Tops and knitwear')`)
	tx.MustExec(`INSERT INTO brands(name,country) VALUES
	  ('Stride','USA'),
	  ('Northloom','Portugal')`)

	tx.MustExec(`INSERT INTO products(name,category_id,brand_id,description,price,discount_price,gender,material) VALUES
	  ('Trail Runner GTX',1,1,'Waterproof trail running shoe','999.00',NULL,'unisex','Gore-Tex'),
	  ('Organic Cotton Tee',2,2,'Heavyweight organic cotton t-shirt','35.00',NULL,'unisex','Cotton'),
	  ('Merino Crew Sweater',2,2,'Fine-gauge merino crew neck','120.00','99.00','men','Merino wool')`)

	tx.MustExec(`INSERT INTO product_variants(product_id,size,color,quantity,price) VALUES
	  (1,'42','Black',10,'999.00'),
	  (1,'43','Black',4,NULL),
	  (2,'M','White',25,'35.00'),
	  (2,'L','Navy',12,'39.00'),
	  (3,'M','Grey',0,NULL)`)

	tx.MustExec(`INSERT INTO product_images(product_id,url) VALUES
	  (1,'/media/products/trail-runner/main.jpg'),
	  (2,'/media/products/cotton-tee/main.jpg'),
	  (3,'/media/products/merino-crew/main.jpg')`)

	return tx.Commit()
}
