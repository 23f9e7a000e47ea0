package mantenedores

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cfl-agro/cfl-back/internal/domain"
	"github.com/cfl-agro/cfl-back/internal/domain/entity"
)

// Gateway es el puerto SQL del CRUD genérico. La infraestructura interpreta
// el descriptor; los payloads ya llegan filtrados a columnas permitidas.
type Gateway interface {
	Listar(ctx context.Context, d Descriptor) ([]map[string]any, error)
	ObtenerPorID(ctx context.Context, d Descriptor, id int64) (map[string]any, error)
	Insertar(ctx context.Context, d Descriptor, payload map[string]any) (int64, error)
	Actualizar(ctx context.Context, d Descriptor, id int64, payload map[string]any) (bool, error)
	// Eliminar respeta SoftDeleteColumn: apagado lógico si está configurada,
	// DELETE físico si no.
	Eliminar(ctx context.Context, d Descriptor, id int64) (bool, error)
	Contar(ctx context.Context, d Descriptor) (int64, error)
}

// FaltanCamposError lista los campos requeridos ausentes de un alta.
type FaltanCamposError struct {
	Campos []string
}

func (e *FaltanCamposError) Error() string {
	return "Faltan campos requeridos: " + strings.Join(e.Campos, ", ")
}

// ResumenEntrada es el contador de una entidad en el resumen general.
type ResumenEntrada struct {
	Clave  string `json:"key"`
	Titulo string `json:"title"`
	Total  int64  `json:"total"`
}

// UseCase expone el CRUD de mantenedores sobre el registro de descriptores.
type UseCase struct {
	gw Gateway
}

// NewUseCase construye el caso de uso.
func NewUseCase(gw Gateway) *UseCase {
	return &UseCase{gw: gw}
}

// Listar devuelve todas las filas del mantenedor en su orden configurado.
func (uc *UseCase) Listar(ctx context.Context, clave string) ([]map[string]any, Descriptor, error) {
	d, err := descriptor(clave)
	if err != nil {
		return nil, Descriptor{}, err
	}
	filas, err := uc.gw.Listar(ctx, d)
	if err != nil {
		return nil, Descriptor{}, err
	}
	return filas, d, nil
}

// Crear inserta una fila nueva. Los campos fuera de la lista permitida se
// descartan en silencio; los requeridos ausentes o vacíos cortan con 400.
func (uc *UseCase) Crear(ctx context.Context, clave string, body map[string]any) (map[string]any, Descriptor, error) {
	d, err := descriptor(clave)
	if err != nil {
		return nil, Descriptor{}, err
	}

	permitidos := append(append([]string{}, d.CreateRequired...), d.CreateOptional...)
	payload := recolectar(body, permitidos)

	var faltantes []string
	for _, campo := range d.CreateRequired {
		v, ok := payload[campo]
		if !ok || v == nil || v == "" {
			faltantes = append(faltantes, campo)
		}
	}
	if len(faltantes) > 0 {
		return nil, d, &FaltanCamposError{Campos: faltantes}
	}

	now := time.Now()
	if d.TimestampCreated != "" {
		payload[d.TimestampCreated] = now
	}
	if d.TimestampUpdated != "" {
		payload[d.TimestampUpdated] = now
	}

	id, err := uc.gw.Insertar(ctx, d, payload)
	if err != nil {
		return nil, d, err
	}
	fila, err := uc.gw.ObtenerPorID(ctx, d, id)
	if err != nil {
		return nil, d, err
	}
	if fila == nil {
		fila = map[string]any{d.IDColumna: id}
	}
	return fila, d, nil
}

// Actualizar modifica los campos permitidos de una fila existente.
func (uc *UseCase) Actualizar(ctx context.Context, clave string, id int64, body map[string]any) (map[string]any, Descriptor, error) {
	d, err := descriptor(clave)
	if err != nil {
		return nil, Descriptor{}, err
	}
	if err := uc.verificarFolioDefault(ctx, d, id); err != nil {
		return nil, d, err
	}

	payload := recolectar(body, d.UpdateAllowed)
	if len(payload) == 0 {
		return nil, d, fmt.Errorf("no se recibieron campos para actualizar: %w", domain.ErrInvalidInput)
	}
	if d.TimestampUpdated != "" {
		payload[d.TimestampUpdated] = time.Now()
	}

	ok, err := uc.gw.Actualizar(ctx, d, id, payload)
	if err != nil {
		return nil, d, err
	}
	if !ok {
		return nil, d, fmt.Errorf("%s %d: %w", d.Titulo, id, domain.ErrNotFound)
	}
	fila, err := uc.gw.ObtenerPorID(ctx, d, id)
	if err != nil {
		return nil, d, err
	}
	return fila, d, nil
}

// Eliminar borra (o apaga) una fila.
func (uc *UseCase) Eliminar(ctx context.Context, clave string, id int64) (Descriptor, error) {
	d, err := descriptor(clave)
	if err != nil {
		return Descriptor{}, err
	}
	if err := uc.verificarFolioDefault(ctx, d, id); err != nil {
		return d, err
	}

	ok, err := uc.gw.Eliminar(ctx, d, id)
	if err != nil {
		return d, err
	}
	if !ok {
		return d, fmt.Errorf("%s %d: %w", d.Titulo, id, domain.ErrNotFound)
	}
	return d, nil
}

// Resumen cuenta las filas de cada mantenedor, en el orden del registro.
func (uc *UseCase) Resumen(ctx context.Context) ([]ResumenEntrada, error) {
	out := make([]ResumenEntrada, 0, len(registro))
	for _, d := range registro {
		total, err := uc.gw.Contar(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, ResumenEntrada{Clave: d.Clave, Titulo: d.Titulo, Total: total})
	}
	return out, nil
}

// verificarFolioDefault protege el folio reservado "0": no se actualiza ni
// se elimina por el mantenedor.
func (uc *UseCase) verificarFolioDefault(ctx context.Context, d Descriptor, id int64) error {
	if d.Clave != ClaveFolios {
		return nil
	}
	fila, err := uc.gw.ObtenerPorID(ctx, d, id)
	if err != nil {
		return err
	}
	if fila == nil {
		return nil
	}
	if num, ok := fila["folio_numero"].(string); ok && num == entity.NumeroFolioDefault {
		return fmt.Errorf("el folio por defecto \"0\" es inmutable: %w", domain.ErrConflict)
	}
	return nil
}

func descriptor(clave string) (Descriptor, error) {
	d, ok := Buscar(clave)
	if !ok {
		return Descriptor{}, fmt.Errorf("mantenedor no soportado: %s: %w", clave, domain.ErrNotFound)
	}
	return d, nil
}

// recolectar filtra el cuerpo a las columnas permitidas, coercionando los
// campos booleanos conocidos.
func recolectar(body map[string]any, permitidos []string) map[string]any {
	payload := make(map[string]any, len(permitidos))
	for _, campo := range permitidos {
		v, ok := body[campo]
		if !ok {
			continue
		}
		payload[campo] = normalizarValor(campo, v)
	}
	return payload
}

func normalizarValor(campo string, v any) any {
	lower := strings.ToLower(campo)
	esBool := strings.HasPrefix(lower, "activo") || strings.HasPrefix(lower, "activa") ||
		strings.HasPrefix(lower, "cerrada") || strings.Contains(lower, "requiere_")
	if !esBool {
		return v
	}
	return coerceBool(v)
}

// coerceBool acepta las representaciones que mandan los clientes del
// dashboard: bool nativo, números y los strings habituales de formularios.
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "t", "yes", "si", "y":
			return true
		}
		return false
	default:
		return false
	}
}
