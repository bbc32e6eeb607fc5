package storage

const schema = `
-- The 'documents' table stores one JSON document per name, replacing the
-- flat files when the sqlite backend is selected.
CREATE TABLE IF NOT EXISTS documents (
    name TEXT PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
