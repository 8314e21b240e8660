package catalog

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gtm-blueprint-api/pkg/models"
)

// ErrNotFound 指定された製品がカタログに存在しない
var ErrNotFound = errors.New("product not found in catalog")

// Catalog 表示順を保持した製品一覧
type Catalog []models.ProductRecord

// Lookup 製品名でレコードを取得
func (c Catalog) Lookup(name string) (models.ProductRecord, error) {
	for _, p := range c {
		if p.Name == name {
			return p, nil
		}
	}
	return models.ProductRecord{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Names セレクトボックスの選択肢（カタログ順）
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name
	}
	return names
}

// sampleProduct is the fixed part of a catalog row; sentiment is drawn at build time.
type sampleProduct struct {
	name        string
	launchDate  string
	category    string
	competitors []string
}

// サンプルの注目製品（擬似スクレイピング結果）
var sampleProducts = []sampleProduct{
	{"SmartSleep Tracker", "2025-11-20", "HealthTech", []string{"CompA", "CompB"}},
	{"EcoWater Bottle", "2025-11-18", "Sustainability", []string{"CompC"}},
	{"AI Content Generator", "2025-11-22", "AI Tools", []string{"CompD", "CompE"}},
	{"Fitness App Pro", "2025-11-19", "Fitness", []string{"CompF"}},
	{"Plant-Based Protein", "2025-11-21", "Nutrition", []string{"CompG", "CompH"}},
}

// Provider builds the trending product catalog.
//
// Sentiment is drawn uniformly from models.Sentiments using a seedable source, so a fixed
// seed reproduces the same catalog. With refresh disabled, Current returns the snapshot taken
// at construction; with refresh enabled every call draws new sentiments.
type Provider struct {
	mu       sync.Mutex
	rng      *rand.Rand
	refresh  bool
	snapshot Catalog
}

// NewProvider 新しいProviderを作成。seedが0の場合は現在時刻から生成します。
func NewProvider(seed int64, refresh bool) *Provider {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := &Provider{
		rng:     rand.New(rand.NewSource(seed)),
		refresh: refresh,
	}
	p.snapshot = p.Build()
	return p
}

// Build 感情値を抽選し直した新しいカタログを作成
func (p *Provider) Build() Catalog {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := make(Catalog, len(sampleProducts))
	for i, s := range sampleProducts {
		competitors := make([]string, len(s.competitors))
		copy(competitors, s.competitors)
		c[i] = models.ProductRecord{
			Name:        s.name,
			LaunchDate:  s.launchDate,
			Category:    s.category,
			Sentiment:   models.Sentiments[p.rng.Intn(len(models.Sentiments))],
			Competitors: competitors,
		}
	}
	return c
}

// Current 画面に表示するカタログを返します。
func (p *Provider) Current() Catalog {
	if p.refresh {
		return p.Build()
	}
	return p.snapshot
}
