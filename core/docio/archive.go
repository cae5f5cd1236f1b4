package docio

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/stannote/stannote/core/dictconv"
	"github.com/stannote/stannote/core/document"
	"github.com/stannote/stannote/core/errors"
	"github.com/stannote/stannote/core/sqlite"
	"github.com/stannote/stannote/internal/logging"
)

// Archive stores dict-serialized documents in a SQLite file, keyed by
// document uid. It is a serialization sink like the JSON writers, not a
// query engine: documents are stored whole as JSON blobs.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (creating if needed) a document archive at the given
// path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		uid  TEXT PRIMARY KEY,
		data TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Put stores a document, replacing any previous version with the same uid.
func (a *Archive) Put(doc *document.TextDocument) error {
	d, err := doc.ToDict()
	if err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = a.db.Exec(`INSERT OR REPLACE INTO documents (uid, data) VALUES (?, ?)`, doc.UID, string(data))
	if err != nil {
		return err
	}
	logging.Debug("archived document", "uid", doc.UID)
	return nil
}

// Get loads the document with the given uid.
func (a *Archive) Get(uid string) (*document.TextDocument, error) {
	var data string
	err := a.db.QueryRow(`SELECT data FROM documents WHERE uid = ?`, uid).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, &errors.NotFoundError{Resource: "document", ID: uid}
	}
	if err != nil {
		return nil, err
	}
	var d dictconv.Dict
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, &errors.ValidationError{Message: "malformed archived document", Err: err}
	}
	return document.FromDict(d)
}

// List returns the uids of all archived documents in insertion order.
func (a *Archive) List() ([]string, error) {
	rows, err := a.db.Query(`SELECT uid FROM documents ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uids []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, rows.Err()
}

// Delete removes the document with the given uid. Deleting an absent uid is
// a not-found error.
func (a *Archive) Delete(uid string) error {
	res, err := a.db.Exec(`DELETE FROM documents WHERE uid = ?`, uid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errors.NotFoundError{Resource: "document", ID: uid}
	}
	return nil
}
