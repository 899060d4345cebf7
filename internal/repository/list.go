package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strconv"
    "time"
)

// listRows executes a built ListQuery against a table and returns the
// matching rows as JSON-ready documents keyed by API field name.  The
// shape of each document follows the query's projection, so callers
// get exactly the fields the client asked for.
func listRows(ctx context.Context, db *sql.DB, table string, q ListQuery, cols *ColumnSet) ([]map[string]any, error) {
    proj := q.Projection(cols)

    sqlStr := "SELECT " + q.SelectClause(cols) + " FROM " + table
    where, args := q.WhereClause(cols)
    if where != "" {
        sqlStr += " WHERE " + where
    }
    if order := q.OrderClause(cols); order != "" {
        sqlStr += " ORDER BY " + order
    }
    limit, offset := q.LimitOffset()
    sqlStr += " LIMIT ? OFFSET ?"
    args = append(args, limit, offset)

    rows, err := db.QueryContext(ctx, sqlStr, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]map[string]any, 0, limit)
    vals := make([]any, len(proj))
    ptrs := make([]any, len(proj))
    for i := range vals {
        ptrs[i] = &vals[i]
    }
    for rows.Next() {
        if err := rows.Scan(ptrs...); err != nil {
            return nil, err
        }
        doc := make(map[string]any, len(proj))
        for i, c := range proj {
            doc[c.field] = convertValue(vals[i], c.kind)
        }
        out = append(out, doc)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// convertValue turns a raw driver value into the representation the
// column kind promises.  The MySQL driver yields []byte for text,
// decimal and JSON columns and time.Time for DATETIME (parseTime=true).
func convertValue(v any, kind int) any {
    switch t := v.(type) {
    case nil:
        return nil
    case []byte:
        switch kind {
        case kindNumber:
            if f, err := strconv.ParseFloat(string(t), 64); err == nil {
                return f
            }
            return string(t)
        case kindJSON:
            var doc any
            if err := json.Unmarshal(t, &doc); err == nil {
                return doc
            }
            return string(t)
        default:
            return string(t)
        }
    case time.Time:
        return t.UTC()
    default:
        return t
    }
}
