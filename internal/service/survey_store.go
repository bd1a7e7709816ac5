package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"survegio_backend/internal/model"
	"survegio_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SurveyStore 评估引擎依赖的数据访问接口，由 repository 层实现
type SurveyStore interface {
	FetchSurveyConfig(ctx context.Context, surveyID uint) (*model.StudentEvaluationSurvey, error)
	FetchAssignmentMapping(ctx context.Context, surveyID uint, relation string) ([]model.AssignmentEntry, error)
	// SaveSurvey 在同一事务中写入问卷设置并整体替换若干关系，失败时全部回滚
	SaveSurvey(ctx context.Context, surveyID uint, settings model.SurveySettings, writes ...model.AssignmentWrite) error
	FetchResponses(ctx context.Context, surveyID uint) ([]model.StudentSurveyResponse, error)
	// FetchStudents 全部学生，附带选课记录与院系
	FetchStudents(ctx context.Context) ([]model.Student, error)
	// FetchEligibleStudents 有选课记录的学生 ID
	FetchEligibleStudents(ctx context.Context) ([]uint, error)
	FetchStudentsInDepartments(ctx context.Context, departmentIDs []uint) ([]uint, error)
	// FetchClasses ids 为空时返回全部班级
	FetchClasses(ctx context.Context, ids []uint) ([]model.Class, error)
	FetchAcademicTerms(ctx context.Context) ([]model.AcademicTerm, error)
	FetchSchoolOffices(ctx context.Context) ([]model.SchoolOffice, error)
	FetchDepartments(ctx context.Context) ([]model.Department, error)
}

// SaveLocker 同一问卷的保存操作互斥
type SaveLocker interface {
	Acquire(ctx context.Context, surveyID uint) (release func(), err error)
}

// LocalSaveLocker 进程内互斥，未启用 Redis 时使用
type LocalSaveLocker struct {
	mu     sync.Mutex
	active map[uint]struct{}
}

func NewLocalSaveLocker() *LocalSaveLocker {
	return &LocalSaveLocker{active: make(map[uint]struct{})}
}

func (l *LocalSaveLocker) Acquire(_ context.Context, surveyID uint) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.active[surveyID]; busy {
		return nil, util.ErrSaveInProgress
	}
	l.active[surveyID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.active, surveyID)
			l.mu.Unlock()
		})
	}, nil
}

// 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisSaveLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSaveLocker(client *redis.Client, ttl time.Duration) *RedisSaveLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisSaveLocker{client: client, ttl: ttl}
}

func saveLockKey(surveyID uint) string {
	return fmt.Sprintf("survegio:survey:%d:save", surveyID)
}

func (l *RedisSaveLocker) Acquire(ctx context.Context, surveyID uint) (func(), error) {
	key := saveLockKey(surveyID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire save lock: %w", err)
	}
	if !ok {
		return nil, util.ErrSaveInProgress
	}

	return func() {
		// 请求 ctx 可能已取消，释放锁使用独立 ctx
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, l.client, []string{key}, token)
	}, nil
}
