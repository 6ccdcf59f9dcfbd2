package docindex

import (
	"context"
	"sync"

	"github.com/forumkit/doccat-backend/internal/domain"
	"github.com/forumkit/doccat-backend/internal/jobs"
)

var _ indexRepo = &indexRepoMock{}

type indexRepoMock struct {
	GetByCategoryIDFunc          func(ctx context.Context, categoryID int64) (*domain.DocIndex, error)
	GetByIndexTopicIDFunc        func(ctx context.Context, topicID int64) (*domain.DocIndex, error)
	ListCategoryIDsFunc          func(ctx context.Context) ([]int64, error)
	UpsertFunc                   func(ctx context.Context, categoryID, indexTopicID int64) (*domain.DocIndex, error)
	DeleteFunc                   func(ctx context.Context, id int64) error
	DeleteByCategoryAndTopicFunc func(ctx context.Context, categoryID, topicID int64) (bool, error)
	GetStructureFunc             func(ctx context.Context, indexID int64) ([]domain.SidebarSection, error)
	ReplaceStructureFunc         func(ctx context.Context, indexID int64, sections []domain.SidebarSection) error

	calls struct {
		Upsert []struct {
			CategoryID   int64
			IndexTopicID int64
		}
		Delete []struct {
			ID int64
		}
		ReplaceStructure []struct {
			IndexID  int64
			Sections []domain.SidebarSection
		}
	}
	lockUpsert           sync.RWMutex
	lockDelete           sync.RWMutex
	lockReplaceStructure sync.RWMutex
}

func (mock *indexRepoMock) GetByCategoryID(ctx context.Context, categoryID int64) (*domain.DocIndex, error) {
	if mock.GetByCategoryIDFunc == nil {
		panic("indexRepoMock.GetByCategoryIDFunc: method is nil but indexRepo.GetByCategoryID was just called")
	}
	return mock.GetByCategoryIDFunc(ctx, categoryID)
}

func (mock *indexRepoMock) GetByIndexTopicID(ctx context.Context, topicID int64) (*domain.DocIndex, error) {
	if mock.GetByIndexTopicIDFunc == nil {
		panic("indexRepoMock.GetByIndexTopicIDFunc: method is nil but indexRepo.GetByIndexTopicID was just called")
	}
	return mock.GetByIndexTopicIDFunc(ctx, topicID)
}

func (mock *indexRepoMock) ListCategoryIDs(ctx context.Context) ([]int64, error) {
	if mock.ListCategoryIDsFunc == nil {
		panic("indexRepoMock.ListCategoryIDsFunc: method is nil but indexRepo.ListCategoryIDs was just called")
	}
	return mock.ListCategoryIDsFunc(ctx)
}

func (mock *indexRepoMock) Upsert(ctx context.Context, categoryID, indexTopicID int64) (*domain.DocIndex, error) {
	if mock.UpsertFunc == nil {
		panic("indexRepoMock.UpsertFunc: method is nil but indexRepo.Upsert was just called")
	}
	callInfo := struct {
		CategoryID   int64
		IndexTopicID int64
	}{CategoryID: categoryID, IndexTopicID: indexTopicID}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, categoryID, indexTopicID)
}

func (mock *indexRepoMock) UpsertCalls() []struct {
	CategoryID   int64
	IndexTopicID int64
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

func (mock *indexRepoMock) Delete(ctx context.Context, id int64) error {
	if mock.DeleteFunc == nil {
		panic("indexRepoMock.DeleteFunc: method is nil but indexRepo.Delete was just called")
	}
	callInfo := struct{ ID int64 }{ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *indexRepoMock) DeleteCalls() []struct{ ID int64 } {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *indexRepoMock) DeleteByCategoryAndTopic(ctx context.Context, categoryID, topicID int64) (bool, error) {
	if mock.DeleteByCategoryAndTopicFunc == nil {
		panic("indexRepoMock.DeleteByCategoryAndTopicFunc: method is nil but indexRepo.DeleteByCategoryAndTopic was just called")
	}
	return mock.DeleteByCategoryAndTopicFunc(ctx, categoryID, topicID)
}

func (mock *indexRepoMock) GetStructure(ctx context.Context, indexID int64) ([]domain.SidebarSection, error) {
	if mock.GetStructureFunc == nil {
		panic("indexRepoMock.GetStructureFunc: method is nil but indexRepo.GetStructure was just called")
	}
	return mock.GetStructureFunc(ctx, indexID)
}

func (mock *indexRepoMock) ReplaceStructure(ctx context.Context, indexID int64, sections []domain.SidebarSection) error {
	if mock.ReplaceStructureFunc == nil {
		panic("indexRepoMock.ReplaceStructureFunc: method is nil but indexRepo.ReplaceStructure was just called")
	}
	callInfo := struct {
		IndexID  int64
		Sections []domain.SidebarSection
	}{IndexID: indexID, Sections: sections}
	mock.lockReplaceStructure.Lock()
	mock.calls.ReplaceStructure = append(mock.calls.ReplaceStructure, callInfo)
	mock.lockReplaceStructure.Unlock()
	return mock.ReplaceStructureFunc(ctx, indexID, sections)
}

func (mock *indexRepoMock) ReplaceStructureCalls() []struct {
	IndexID  int64
	Sections []domain.SidebarSection
} {
	mock.lockReplaceStructure.RLock()
	calls := mock.calls.ReplaceStructure
	mock.lockReplaceStructure.RUnlock()
	return calls
}

var _ topicReader = &topicReaderMock{}

type topicReaderMock struct {
	GetByIDFunc   func(ctx context.Context, id int64) (*domain.Topic, error)
	GetByIDsFunc  func(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error)
	FirstPostFunc func(ctx context.Context, topicID int64) (*domain.Post, error)

	calls struct {
		GetByIDs []struct {
			IDs []int64
		}
	}
	lockGetByIDs sync.RWMutex
}

func (mock *topicReaderMock) GetByID(ctx context.Context, id int64) (*domain.Topic, error) {
	if mock.GetByIDFunc == nil {
		panic("topicReaderMock.GetByIDFunc: method is nil but topicReader.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

func (mock *topicReaderMock) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Topic, error) {
	if mock.GetByIDsFunc == nil {
		panic("topicReaderMock.GetByIDsFunc: method is nil but topicReader.GetByIDs was just called")
	}
	callInfo := struct{ IDs []int64 }{IDs: ids}
	mock.lockGetByIDs.Lock()
	mock.calls.GetByIDs = append(mock.calls.GetByIDs, callInfo)
	mock.lockGetByIDs.Unlock()
	return mock.GetByIDsFunc(ctx, ids)
}

func (mock *topicReaderMock) GetByIDsCalls() []struct{ IDs []int64 } {
	mock.lockGetByIDs.RLock()
	calls := mock.calls.GetByIDs
	mock.lockGetByIDs.RUnlock()
	return calls
}

func (mock *topicReaderMock) FirstPost(ctx context.Context, topicID int64) (*domain.Post, error) {
	if mock.FirstPostFunc == nil {
		panic("topicReaderMock.FirstPostFunc: method is nil but topicReader.FirstPost was just called")
	}
	return mock.FirstPostFunc(ctx, topicID)
}

var _ categoryReader = &categoryReaderMock{}

type categoryReaderMock struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Category, error)
}

func (mock *categoryReaderMock) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if mock.GetByIDFunc == nil {
		panic("categoryReaderMock.GetByIDFunc: method is nil but categoryReader.GetByID was just called")
	}
	return mock.GetByIDFunc(ctx, id)
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

var _ linkResolver = &linkResolverMock{}

type linkResolverMock struct {
	ExtractTopicIDFunc func(href string) (int64, bool)
}

func (mock *linkResolverMock) ExtractTopicID(href string) (int64, bool) {
	if mock.ExtractTopicIDFunc == nil {
		panic("linkResolverMock.ExtractTopicIDFunc: method is nil but linkResolver.ExtractTopicID was just called")
	}
	return mock.ExtractTopicIDFunc(href)
}

var _ jobs.Enqueuer = &enqueuerMock{}

type enqueuerMock struct {
	EnqueueFunc func(ctx context.Context, name string, args jobs.Args) error

	calls struct {
		Enqueue []struct {
			Name string
			Args jobs.Args
		}
	}
	lockEnqueue sync.RWMutex
}

func (mock *enqueuerMock) Enqueue(ctx context.Context, name string, args jobs.Args) error {
	if mock.EnqueueFunc == nil {
		panic("enqueuerMock.EnqueueFunc: method is nil but Enqueuer.Enqueue was just called")
	}
	callInfo := struct {
		Name string
		Args jobs.Args
	}{Name: name, Args: args}
	mock.lockEnqueue.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, callInfo)
	mock.lockEnqueue.Unlock()
	return mock.EnqueueFunc(ctx, name, args)
}

func (mock *enqueuerMock) EnqueueCalls() []struct {
	Name string
	Args jobs.Args
} {
	mock.lockEnqueue.RLock()
	calls := mock.calls.Enqueue
	mock.lockEnqueue.RUnlock()
	return calls
}

var _ cacheInvalidator = &cacheInvalidatorMock{}

type cacheInvalidatorMock struct {
	InvalidateFunc func()

	calls struct {
		Invalidate []struct{}
	}
	lockInvalidate sync.RWMutex
}

func (mock *cacheInvalidatorMock) Invalidate() {
	if mock.InvalidateFunc == nil {
		panic("cacheInvalidatorMock.InvalidateFunc: method is nil but cacheInvalidator.Invalidate was just called")
	}
	mock.lockInvalidate.Lock()
	mock.calls.Invalidate = append(mock.calls.Invalidate, struct{}{})
	mock.lockInvalidate.Unlock()
	mock.InvalidateFunc()
}

func (mock *cacheInvalidatorMock) InvalidateCalls() []struct{} {
	mock.lockInvalidate.RLock()
	calls := mock.calls.Invalidate
	mock.lockInvalidate.RUnlock()
	return calls
}

var _ categoryPublisher = &categoryPublisherMock{}

type categoryPublisherMock struct {
	PublishCategoryChangeFunc func(ctx context.Context, categoryID int64)

	calls struct {
		PublishCategoryChange []struct {
			CategoryID int64
		}
	}
	lockPublishCategoryChange sync.RWMutex
}

func (mock *categoryPublisherMock) PublishCategoryChange(ctx context.Context, categoryID int64) {
	if mock.PublishCategoryChangeFunc == nil {
		panic("categoryPublisherMock.PublishCategoryChangeFunc: method is nil but categoryPublisher.PublishCategoryChange was just called")
	}
	callInfo := struct{ CategoryID int64 }{CategoryID: categoryID}
	mock.lockPublishCategoryChange.Lock()
	mock.calls.PublishCategoryChange = append(mock.calls.PublishCategoryChange, callInfo)
	mock.lockPublishCategoryChange.Unlock()
	mock.PublishCategoryChangeFunc(ctx, categoryID)
}

func (mock *categoryPublisherMock) PublishCategoryChangeCalls() []struct{ CategoryID int64 } {
	mock.lockPublishCategoryChange.RLock()
	calls := mock.calls.PublishCategoryChange
	mock.lockPublishCategoryChange.RUnlock()
	return calls
}

var _ featureFlag = &featureFlagMock{}

type featureFlagMock struct {
	EnabledFunc func() bool
}

func (mock *featureFlagMock) Enabled() bool {
	if mock.EnabledFunc == nil {
		panic("featureFlagMock.EnabledFunc: method is nil but featureFlag.Enabled was just called")
	}
	return mock.EnabledFunc()
}
