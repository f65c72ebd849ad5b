package store

const schema = `
CREATE TABLE IF NOT EXISTS payments_incoming (
    id           TEXT PRIMARY KEY,
    payment_hash TEXT,
    tx_id        TEXT,
    created_at   INTEGER NOT NULL,
    received_at  INTEGER,
    data         BLOB NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS payments_incoming_payment_hash
    ON payments_incoming (payment_hash)
    WHERE payment_hash IS NOT NULL;

CREATE INDEX IF NOT EXISTS payments_incoming_created_at
    ON payments_incoming (created_at);

CREATE TABLE IF NOT EXISTS payments_metadata (
    payment_id TEXT PRIMARY KEY,
    data       BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS on_chain_transactions (
    payment_id   TEXT PRIMARY KEY,
    tx_id        TEXT NOT NULL,
    confirmed_at INTEGER,
    locked_at    INTEGER
);

CREATE TABLE IF NOT EXISTS payments_outgoing (
    id           TEXT PRIMARY KEY,
    tx_id        TEXT,
    created_at   INTEGER NOT NULL,
    completed_at INTEGER,
    data         BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS payments_outgoing_tx_id
    ON payments_outgoing (tx_id);

CREATE TABLE IF NOT EXISTS pending_notifications (
    identifier  TEXT PRIMARY KEY,
    content     BLOB NOT NULL,
    enqueued_at INTEGER NOT NULL
);
`
