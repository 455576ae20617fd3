// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import "context"

// Repository is the storage contract for authors.
//
// Lookups return [dberr.ErrNotFound] when no row matches. Create and Update
// fill the server-assigned ID and timestamps on the passed record.
type Repository interface {
	Create(context context.Context, author *Author) error
	GetByID(context context.Context, id int64) (*Author, error)
	GetByName(context context.Context, name string) (*Author, error)
	List(context context.Context, filter Filter, limit, offset int) ([]*Author, error)
	Count(context context.Context, filter Filter) (int, error)
	Update(context context.Context, author *Author) error
	Delete(context context.Context, id int64) error
}
