package model

import "fmt"

// Entity 数据集类型
type Entity string

const (
	EntityMarketIndex Entity = "market_index"
	EntityBasicInfo   Entity = "basic_info"
	EntityPrice       Entity = "price"
	EntityDividend    Entity = "dividend"
	EntitySize        Entity = "size"
	EntityHistory     Entity = "history"
)

// MergePolicy 导入时写入缓存的方式
type MergePolicy int

const (
	// PolicyUpsertByKey 按复合主键合并，新记录覆盖旧记录
	PolicyUpsertByKey MergePolicy = iota
	// PolicyReplace 整体替换
	PolicyReplace
)

func (p MergePolicy) String() string {
	if p == PolicyReplace {
		return "REPLACE"
	}
	return "UPSERT_BY_KEY"
}

var entityLabels = map[Entity]string{
	EntityMarketIndex: "大盘指数",
	EntityBasicInfo:   "ETF基本资料",
	EntityPrice:       "每日价格",
	EntityDividend:    "配息资料",
	EntitySize:        "基金规模",
	EntityHistory:     "历史价格",
}

// Entities 返回全部六类数据集，顺序固定
func Entities() []Entity {
	return []Entity{
		EntityMarketIndex,
		EntityBasicInfo,
		EntityPrice,
		EntityDividend,
		EntitySize,
		EntityHistory,
	}
}

// ParseEntity 解析路由或配置中的数据集名称
func ParseEntity(s string) (Entity, error) {
	e := Entity(s)
	if _, ok := entityLabels[e]; !ok {
		return "", fmt.Errorf("未知的数据类型: %s", s)
	}
	return e, nil
}

// Policy 基本资料与规模每次整体替换，其余按主键合并
func (e Entity) Policy() MergePolicy {
	switch e {
	case EntityBasicInfo, EntitySize:
		return PolicyReplace
	default:
		return PolicyUpsertByKey
	}
}

// Label 中文名称，用于错误提示
func (e Entity) Label() string {
	if l, ok := entityLabels[e]; ok {
		return l
	}
	return string(e)
}

// Slot 缓存中的存储键
func (e Entity) Slot() string {
	return "etf_" + string(e)
}

// Keyed 可按复合主键合并的记录
type Keyed interface {
	Key() string
}
