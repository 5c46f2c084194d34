package interfaces

import "goodsync/internal/good"

type CollectionStoreInterface interface {
	Load(fileName string) (*good.Collection, error)
	Save(collection *good.Collection, fileName string) error
}
