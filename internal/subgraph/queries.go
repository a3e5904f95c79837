package subgraph

// GraphQL documents. Field names follow the deployed subgraph schemas:
// the exchange subgraph prices everything against the native currency
// (avaxPrice, derivedAVAX), the masterchef subgraph exposes the reward
// accounting fields, and the bar subgraph exposes the vault ledgers.
const (
	poolsQuery = `query Pools($first: Int!) {
  pools(first: $first) {
    id
    pair
    allocPoint
    balance
    accJoePerShare
    owner {
      id
      totalAllocPoint
      joePerBlock
    }
  }
}`

	poolUsersQuery = `query PoolUsers($address: String!, $first: Int!) {
  users(first: $first, where: { address: $address }) {
    id
    amount
    rewardDebt
    entryUSD
    exitUSD
    joeHarvested
    joeHarvestedUSD
    pool {
      id
      pair
      allocPoint
      accJoePerShare
    }
  }
}`

	pairSubsetQuery = `query PairSubset($ids: [String!]!, $first: Int!) {
  pairs(first: $first, where: { id_in: $ids }) {
    id
    token0 { id symbol }
    token1 { id symbol }
    reserve0
    reserve1
    totalSupply
    reserveUSD
  }
}`

	pairsQuery = `query Pairs($first: Int!) {
  pairs(first: $first, orderBy: reserveUSD, orderDirection: desc) {
    id
    token0 { id symbol }
    token1 { id symbol }
    reserve0
    reserve1
    totalSupply
    reserveUSD
  }
}`

	bundleQuery = `query Bundle {
  bundles(first: 1) {
    id
    avaxPrice
  }
}`

	tokenQuery = `query Token($id: String!) {
  token(id: $id) {
    id
    symbol
    derivedAVAX
  }
}`

	barUserQuery = `query BarUser($id: String!) {
  user(id: $id) {
    id
    xJoe
    joeStaked
    joeStakedUSD
    joeHarvested
    joeHarvestedUSD
    joeIn
    joeOut
    usdIn
    usdOut
    updatedAt
    bar {
      joeStaked
      totalSupply
    }
  }
}`

	latestBlockQuery = `query LatestBlock {
  blocks(first: 1, orderBy: number, orderDirection: desc) {
    id
    number
    timestamp
  }
}`

	recentBlocksQuery = `query RecentBlocks($start: Int!, $first: Int!) {
  blocks(first: $first, orderBy: timestamp, orderDirection: desc, where: { timestamp_gt: $start }) {
    number
    timestamp
  }
}`
)
