package cipher

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lk2023060901/srtp-garden-go/pkg/log"
	"github.com/lk2023060901/srtp-garden-go/pkg/metrics"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/conc"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/hardware"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/merr"
	"github.com/lk2023060901/srtp-garden-go/pkg/util/typeutil"
)

const tracerName = "github.com/lk2023060901/srtp-garden-go/internal/crypto/cipher"

// Registry 维护一组算法描述符，按注册顺序遍历。
// 注册通常发生在启动阶段，查询与自检可在运行期并发进行。
type Registry struct {
	mu    sync.RWMutex
	types []*Type
	ids   typeutil.Set[AlgorithmID]

	verified *typeutil.ConcurrentSet[AlgorithmID]
	sfg      singleflight.Group
}

// NewRegistry 创建一个空注册表。
func NewRegistry() *Registry {
	return &Registry{
		ids:      typeutil.NewSet[AlgorithmID](),
		verified: typeutil.NewConcurrentSet[AlgorithmID](),
	}
}

// Register 登记一个描述符。同一算法标识重复登记返回 ErrTypeDuplicate，
// 已有条目保持不变。
func (r *Registry) Register(t *Type) error {
	if t == nil || t.Alloc == nil {
		return merr.WrapErrBadParameter("cipher type has no allocator")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids.Contain(t.Algorithm) {
		return merr.WrapErrTypeDuplicate(t.Algorithm)
	}
	r.ids.Insert(t.Algorithm)
	r.types = append(r.types, t)
	return nil
}

// Lookup 按算法标识查找描述符，未登记返回 ErrTypeNotFound。
func (r *Registry) Lookup(id AlgorithmID) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.types {
		if t.Algorithm == id {
			return t, nil
		}
	}
	return nil, merr.WrapErrTypeNotFound(id)
}

// Types 返回注册顺序的描述符快照。
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, len(r.types))
	copy(out, r.types)
	return out
}

// SelfTestAll 并行自检全部已登记算法，聚合所有失败后一并返回。
// 一个算法失败不会阻止其余算法完成自检。
func (r *Registry) SelfTestAll(ctx context.Context, cfg SelfTestConfig) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Registry.SelfTestAll")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}

	types := r.Types()
	pool := conc.NewPool[any](hardware.GetCPUNum())
	defer pool.Release()

	futures := make([]*conc.Future[any], 0, len(types))
	for _, t := range types {
		t := t
		futures = append(futures, pool.Submit(func() (any, error) {
			return nil, r.selfTestOne(ctx, t, cfg)
		}))
	}

	var errs []error
	for _, future := range futures {
		if _, err := future.Await(); err != nil {
			errs = append(errs, err)
		}
	}
	err := merr.Combine(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "self-test failed")
	}
	return err
}

func (r *Registry) selfTestOne(ctx context.Context, t *Type, cfg SelfTestConfig) error {
	_, span := otel.Tracer(tracerName).Start(ctx, "Type.SelfTest",
		trace.WithAttributes(attribute.String("algorithm", t.Algorithm.String())))
	defer span.End()

	err := t.SelfTest(cfg)
	if err != nil {
		metrics.SelfTestTotal.WithLabelValues(t.Algorithm.String(), metrics.ResultFail).Inc()
		log.Warn("cipher self-test failed",
			log.FieldModule("cipher"),
			log.FieldAlgorithm(t.Algorithm.String()),
			zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "self-test failed")
		return err
	}
	metrics.SelfTestTotal.WithLabelValues(t.Algorithm.String(), metrics.ResultPass).Inc()
	r.verified.Insert(t.Algorithm)
	log.Debug("cipher self-test passed",
		log.FieldModule("cipher"),
		log.FieldAlgorithm(t.Algorithm.String()))
	return nil
}

// EnsureSelfTest 保证指定算法至少成功自检过一次。
// 已验证过的算法直接返回；并发调用会合并为单次自检。
func (r *Registry) EnsureSelfTest(ctx context.Context, id AlgorithmID, cfg SelfTestConfig) error {
	if r.verified.Contain(id) {
		return nil
	}
	_, err, _ := r.sfg.Do(id.String(), func() (any, error) {
		if r.verified.Contain(id) {
			return nil, nil
		}
		t, err := r.Lookup(id)
		if err != nil {
			return nil, err
		}
		return nil, r.selfTestOne(ctx, t, cfg)
	})
	return err
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry 返回包含全部内置算法的进程级注册表。
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, t := range []*Type{
			NullCipherType,
			AESICM128Type,
			AESICM256Type,
			AESGCM128Type,
			AESGCM256Type,
		} {
			if err := defaultRegistry.Register(t); err != nil {
				panic(err)
			}
		}
	})
	return defaultRegistry
}
