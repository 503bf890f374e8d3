package state

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    script      TEXT NOT NULL,
    input       TEXT NOT NULL,
    raw_status  TEXT NOT NULL,
    status      TEXT NOT NULL,
    accepted    INTEGER NOT NULL,
    timed_out   INTEGER NOT NULL,
    abnormal    INTEGER NOT NULL,
    runtime_us  INTEGER NOT NULL,
    created_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_script_created ON runs (script, created_at);
`

// MySQL/MariaDB reject multi-statement Exec by default, so each statement
// runs separately.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
    id          CHAR(36) PRIMARY KEY,
    script      VARCHAR(1024) NOT NULL,
    input       VARCHAR(1024) NOT NULL,
    raw_status  VARCHAR(64) NOT NULL,
    status      VARCHAR(64) NOT NULL,
    accepted    TINYINT NOT NULL,
    timed_out   TINYINT NOT NULL,
    abnormal    TINYINT NOT NULL,
    runtime_us  BIGINT NOT NULL,
    created_at  BIGINT NOT NULL,
    INDEX runs_script_created (script(255), created_at)
)`,
}
