package service

import (
	"math"
	"math/bits"
	"math/rand/v2"
	"slices"
)

// 固定的 PCG 流常量，修改会导致已保存问卷重新抽样结果变化
const pcgStream uint64 = 0x5eed5a3b1e5c0de5

// ClampPercentage 将比例限制在 [0,100]，非法值按 0 处理
func ClampPercentage(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// SampleSize 返回 ceil(n*p/100)，结果落在 [0,n]
func SampleSize(n int, percentage float64) int {
	if n <= 0 {
		return 0
	}
	p := ClampPercentage(percentage)
	size := int(math.Ceil(float64(n)*p/100 - 1e-9))
	if size < 0 {
		return 0
	}
	if size > n {
		return n
	}
	return size
}

// ExpectedCount 预期参与人数，与 SampleSize 同一口径
func ExpectedCount(base int, percentage float64) int {
	return SampleSize(base, percentage)
}

// SelectSample 按种子确定性地抽取 percentage% 的成员。
// 输入先排序再洗牌，因此同一组 ID 不论读取顺序如何都得到相同结果；不修改入参，不去重。
func SelectSample(ids []uint, percentage float64, seed uint64) []uint {
	size := SampleSize(len(ids), percentage)
	if size == 0 {
		return []uint{}
	}

	shuffled := slices.Clone(ids)
	slices.Sort(shuffled)

	src := rand.NewPCG(seed, pcgStream)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := boundedIndex(src, uint64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:size]
}

// boundedIndex 乘法取高位映射到 [0,n)
func boundedIndex(src *rand.PCG, n uint64) int {
	hi, _ := bits.Mul64(src.Uint64(), n)
	return int(hi)
}
