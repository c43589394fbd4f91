package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stagecontrol/admin-user-services/models"
)

// ErrUserNotFound is returned when an update targets a user that does not exist.
var ErrUserNotFound = errors.New("user not found")

// sortColumns whitelists the sortable fields and maps them to table columns.
var sortColumns = map[string]string{
	"fullName": "full_name",
	"email":    "email",
	"role":     "role",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterClauses builds the WHERE predicates for a filter. The same clauses
// back both FindUsers and CountUsers so page contents and totals always agree.
func filterClauses(f models.UserFilter) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(column, needle string) {
		if needle == "" {
			return
		}
		args = append(args, "%"+likeEscaper.Replace(needle)+"%")
		clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}

	add("full_name", f.FullName)
	add("email", f.Email)
	add("role", f.Role)

	return clauses, args
}

func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// FindUsers retrieves one page of users matching the query's filter, ordered
// by the query's sort key and direction.
func (db *UsersDB) FindUsers(q models.UserQuery) ([]models.User, error) {
	column, ok := sortColumns[q.SortKey]
	if !ok {
		column = "full_name"
	}
	direction := "ASC"
	if strings.EqualFold(q.SortDirection, "desc") {
		direction = "DESC"
	}

	clauses, args := filterClauses(q.Filter)

	query := fmt.Sprintf(
		"SELECT id, full_name, email, role FROM users%s ORDER BY %s %s OFFSET $%d LIMIT $%d",
		whereSQL(clauses), column, direction, len(args)+1, len(args)+2)
	args = append(args, q.Skip, q.Limit)

	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of users matching the filter, independent of
// pagination.
func (db *UsersDB) CountUsers(f models.UserFilter) (int, error) {
	clauses, args := filterClauses(f)
	query := "SELECT COUNT(*) FROM users" + whereSQL(clauses)

	var total int
	if err := db.DB.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return total, nil
}

// InsertUser persists a new user record and returns it with its assigned ID.
func (db *UsersDB) InsertUser(req models.NewUser) (*models.User, error) {
	user := models.User{
		ID:       uuid.New(),
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	}

	_, err := db.DB.Exec(`
		INSERT INTO users (id, full_name, email, role)
		VALUES ($1, $2, $3, $4)`,
		user.ID, user.FullName, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("error inserting user: %w", err)
	}

	return &user, nil
}

// UpdateUser replaces the named fields of the user with the given ID. Fields
// left nil in the update keep their stored value.
func (db *UsersDB) UpdateUser(id uuid.UUID, upd models.UserUpdate) error {
	result, err := db.DB.Exec(`
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    email = COALESCE($3, email),
		    role = COALESCE($4, role)
		WHERE id = $1`,
		id, upd.FullName, upd.Email, upd.Role)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user with the given ID. Deleting an ID that does not
// exist is not an error.
func (db *UsersDB) DeleteUser(id uuid.UUID) error {
	if _, err := db.DB.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
