package ports

import (
	"context"

	"github.com/jhoicas/pintureria-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback de todo; si no, commit.
// Los adaptadores pueden reintentar fn completo ante conflictos transitorios, por lo que fn
// no debe tener efectos fuera de los repositorios recibidos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}
