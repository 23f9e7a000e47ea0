package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cfl-agro/cfl-back/internal/application/mantenedores"
	"github.com/cfl-agro/cfl-back/internal/domain"
)

var _ mantenedores.Gateway = (*MantenedorGateway)(nil)

// MantenedorGateway ejecuta el CRUD genérico dirigido por descriptores.
// Tablas y columnas salen exclusivamente del registro de descriptores, nunca
// de la entrada del usuario; los valores siempre viajan como parámetros.
type MantenedorGateway struct {
	q Querier
}

// NewMantenedorGateway construye el gateway. Pasar pool o tx (Querier).
func NewMantenedorGateway(q Querier) *MantenedorGateway {
	return &MantenedorGateway{q: q}
}

func fromBase(d mantenedores.Descriptor) string {
	if d.From != "" {
		return d.From
	}
	return d.Tabla + " " + d.Alias
}

// Listar devuelve todas las filas en el orden configurado del mantenedor.
func (g *MantenedorGateway) Listar(ctx context.Context, d mantenedores.Descriptor) ([]map[string]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(d.ListColumns, ", "), fromBase(d), d.OrderBy)
	rows, err := g.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", d.Clave, err)
	}
	defer rows.Close()
	return filasComoMapas(rows)
}

// ObtenerPorID devuelve una fila con las columnas de listado. nil si no existe.
func (g *MantenedorGateway) ObtenerPorID(ctx context.Context, d mantenedores.Descriptor, id int64) (map[string]any, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s.%s = $1",
		strings.Join(d.ListColumns, ", "), fromBase(d), d.Alias, d.IDColumna)
	rows, err := g.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d.Clave, err)
	}
	defer rows.Close()
	filas, err := filasComoMapas(rows)
	if err != nil {
		return nil, err
	}
	if len(filas) == 0 {
		return nil, nil
	}
	return filas[0], nil
}

// Insertar crea la fila y devuelve su id.
func (g *MantenedorGateway) Insertar(ctx context.Context, d mantenedores.Descriptor, payload map[string]any) (int64, error) {
	cols := make([]string, 0, len(payload))
	marcas := make([]string, 0, len(payload))
	args := make([]any, 0, len(payload))
	for col, val := range payload {
		cols = append(cols, col)
		args = append(args, val)
		marcas = append(marcas, fmt.Sprintf("$%d", len(args)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		d.Tabla, strings.Join(cols, ", "), strings.Join(marcas, ", "), d.IDColumna)
	var id int64
	if err := g.q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("insert %s: %w", d.Clave, err)
	}
	return id, nil
}

// Actualizar modifica la fila; false cuando el id no existe.
func (g *MantenedorGateway) Actualizar(ctx context.Context, d mantenedores.Descriptor, id int64, payload map[string]any) (bool, error) {
	sets := make([]string, 0, len(payload))
	args := []any{id}
	for col, val := range payload {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1",
		d.Tabla, strings.Join(sets, ", "), d.IDColumna)
	cmd, err := g.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return false, domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return false, domain.ErrConflict
		}
		return false, fmt.Errorf("update %s: %w", d.Clave, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Eliminar borra la fila: apagado lógico si el descriptor tiene columna de
// soft delete, DELETE físico si no. false cuando el id no existe.
func (g *MantenedorGateway) Eliminar(ctx context.Context, d mantenedores.Descriptor, id int64) (bool, error) {
	var query string
	if d.SoftDeleteColumn != "" {
		set := d.SoftDeleteColumn + " = false"
		if d.TimestampUpdated != "" {
			set += ", " + d.TimestampUpdated + " = now()"
		}
		query = fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", d.Tabla, set, d.IDColumna)
	} else {
		query = fmt.Sprintf("DELETE FROM %s WHERE %s = $1", d.Tabla, d.IDColumna)
	}

	cmd, err := g.q.Exec(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrConflict
		}
		return false, fmt.Errorf("delete %s: %w", d.Clave, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Contar cuenta todas las filas de la tabla base.
func (g *MantenedorGateway) Contar(ctx context.Context, d mantenedores.Descriptor) (int64, error) {
	var total int64
	if err := g.q.QueryRow(ctx, "SELECT COUNT(*) FROM "+d.Tabla).Scan(&total); err != nil {
		return 0, fmt.Errorf("contar %s: %w", d.Clave, err)
	}
	return total, nil
}

func filasComoMapas(rows pgx.Rows) ([]map[string]any, error) {
	fds := rows.FieldDescriptions()
	var out []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("leer fila: %w", err)
		}
		m := make(map[string]any, len(fds))
		for i, fd := range fds {
			m[fd.Name] = vals[i]
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return out, nil
}
