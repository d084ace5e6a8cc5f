package cache

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
    content_hash   TEXT NOT NULL,
    capability     TEXT NOT NULL,
    provider       TEXT NOT NULL,
    params_digest  TEXT NOT NULL,
    success        INTEGER NOT NULL,
    result_text    TEXT NOT NULL,
    cost           REAL NOT NULL DEFAULT 0,
    created_at     TEXT NOT NULL,
    PRIMARY KEY (content_hash, capability, provider, params_digest)
);

CREATE INDEX IF NOT EXISTS idx_results_hash ON results(content_hash);
`
