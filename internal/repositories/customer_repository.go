package repositories

import (
	"context"

	"spareparts-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// CreateTx inserts a customer on the given querier; bill creation uses this
// with its transaction when the bill comes with a new-customer payload.
func (r *CustomerRepository) CreateTx(ctx context.Context, q Querier, c *models.Customer) error {
	return q.QueryRow(ctx,
		`INSERT INTO customers(name, phone, address)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		c.Name, c.Phone, c.Address,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.CreateTx(ctx, r.DB, c)
}

func (r *CustomerRepository) Get(ctx context.Context, q Querier, id int) (*models.Customer, error) {
	row := q.QueryRow(ctx,
		`SELECT id, name, phone, COALESCE(address, '') as address, created_at, updated_at
         FROM customers WHERE id=$1`, id)

	var customer models.Customer
	err := row.Scan(&customer.ID, &customer.Name, &customer.Phone,
		&customer.Address, &customer.CreatedAt, &customer.UpdatedAt)
	return &customer, err
}

func (r *CustomerRepository) GetByPhone(ctx context.Context, q Querier, phone string) (*models.Customer, error) {
	row := q.QueryRow(ctx,
		`SELECT id, name, phone, COALESCE(address, '') as address, created_at, updated_at
         FROM customers WHERE phone=$1`, phone)

	var customer models.Customer
	err := row.Scan(&customer.ID, &customer.Name, &customer.Phone,
		&customer.Address, &customer.CreatedAt, &customer.UpdatedAt)
	return &customer, err
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, phone, COALESCE(address, '') as address, created_at, updated_at
         FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var customer models.Customer
		err := rows.Scan(&customer.ID, &customer.Name, &customer.Phone,
			&customer.Address, &customer.CreatedAt, &customer.UpdatedAt)
		if err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	return r.DB.QueryRow(ctx,
		`UPDATE customers SET name=$1, phone=$2, address=$3, updated_at=NOW()
         WHERE id=$4
         RETURNING created_at, updated_at`,
		c.Name, c.Phone, c.Address, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
