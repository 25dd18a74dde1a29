package repository

import (
	"fmt"
	"strings"

	"remino/cmd/internal/domain/entity"
	"remino/cmd/internal/domain/sqlite"

	"gorm.io/gorm"
)

// shareTable describes one many-to-many collaborator table.
type shareTable struct {
	name   string
	column string
}

var (
	noteShares = shareTable{name: "note_shares", column: "note_id"}
	taskShares = shareTable{name: "task_shares", column: "task_id"}
)

// replace rewrites the collaborator rows of entityID to exactly users.
func (s shareTable) replace(tx *gorm.DB, entityID int64, users []*entity.User) error {
	del := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.name, s.column)
	if err := tx.Exec(del, entityID).Error; err != nil {
		return err
	}

	ins := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s, user_id) VALUES (?, ?)", s.name, s.column)
	for _, u := range users {
		if err := tx.Exec(ins, entityID, u.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// visibleTo restricts a query on table to rows owned by or shared with userID.
func (s shareTable) visibleTo(db *gorm.DB, table string, userID int64) *gorm.DB {
	cond := fmt.Sprintf("%[1]s.user_id = ? OR %[1]s.id IN (SELECT %[2]s FROM %[3]s WHERE user_id = ?)",
		table, s.column, s.name)
	return db.Where(cond, userID, userID)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchScope applies a case-insensitive substring match over the given columns.
// The term is matched literally, '%' and '_' are not wildcards.
func searchScope(db *gorm.DB, search string, columns ...string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" {
		return db
	}

	like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = sqlite.LowerFunc + "(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = like
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

// orderClause resolves a client ordering against the allowed columns, falling back
// to def when the value is not recognized.
func orderClause(ordering string, table string, allowed []string, def string) string {
	field := strings.TrimSpace(ordering)
	dir := "ASC"
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}

	for _, col := range allowed {
		if col == field {
			return fmt.Sprintf("%s.%s %s", table, col, dir)
		}
	}
	return def
}
