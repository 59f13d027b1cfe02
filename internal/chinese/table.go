package chinese

// Traditional/simplified pairs, interleaved trad-then-simp. The set covers
// the characters that actually occur in film and series titles; anything
// outside it passes through untouched.
const pairs = "萬万與与專专業业東东絲丝兩两嚴严喪丧個个豐丰臨临為为麗丽舉举麼么義义" +
	"烏乌樂乐喬乔習习鄉乡書书買买亂乱爭争虧亏雲云亞亚產产親亲億亿僅仅從从倫伦" +
	"倉仓儀仪們们價价眾众優优會会傘伞偉伟傳传傷伤傾倾儉俭俠侠側侧偵侦債债兒儿" +
	"兌兑黨党蘭兰關关興兴養养獸兽岡冈冊册寫写軍军農农馮冯沖冲決决況况凍冻淨净" +
	"減减幾几鳳凤憑凭凱凯擊击鑿凿劃划劉刘則则剛刚創创刪删別别劑剂劇剧勸劝辦办" +
	"務务動动勵励勁劲勞劳勢势勳勋勻匀區区醫医華华協协單单賣卖盧卢臥卧衛卫卻却" +
	"廠厂廳厅歷历厲厉壓压厭厌廁厕縣县參参雙双發发變变敘叙疊叠葉叶號号嘆叹嚇吓" +
	"呂吕嗎吗噸吨聽听啟启吳吴嘔呕唄呗員员嗆呛嗚呜詠咏嚨咙鹹咸響响啞哑嘩哗喲哟" +
	"嘮唠喚唤囉啰嘯啸噴喷嘍喽囑嘱嚕噜囂嚣團团園园圍围國国圖图圓圆聖圣場场壞坏" +
	"塊块堅坚壇坛壩坝塢坞墳坟墜坠壟垄壘垒墾垦墊垫墮堕牆墙壯壮聲声殼壳壺壶處处" +
	"備备複复夠够頭头誇夸夾夹奪夺奐奂奮奋獎奖奧奥妝妆婦妇媽妈婁娄婭娅嬌娇娛娱" +
	"嬰婴嬸婶孫孙學学寧宁寶宝實实寵宠審审憲宪宮宫寬宽賓宾寢寝對对尋寻導导壽寿" +
	"將将爾尔塵尘嘗尝層层屆届屬属屢屡嶼屿歲岁豈岂崗岗嵐岚島岛嶺岭嶽岳巒峦峽峡" +
	"崢峥嶄崭巔巅鞏巩幣币帥帅師师帳帐簾帘幟帜帶带幀帧幫帮幹干並并廣广莊庄慶庆" +
	"廬庐庫库應应廟庙龐庞廢废廚厨廈厦開开異异棄弃張张彌弥彎弯彈弹強强歸归當当" +
	"噹当錄录彥彦徹彻徑径禦御憶忆憂忧懷怀態态悵怅憐怜總总戀恋恆恒懇恳惡恶惱恼" +
	"悅悦懸悬憫悯驚惊懼惧慘惨懲惩憊惫慚惭慣惯憤愤愛爱戲戏戰战戶户紮扎撲扑執执" +
	"擴扩掃扫揚扬擾扰撫抚拋抛搶抢護护報报擔担擬拟攏拢揀拣擁拥攔拦擰拧撥拨擇择" +
	"掛挂挾挟撓挠擋挡掙挣擠挤揮挥撈捞損损撿捡換换搗捣據据摟搂擱搁攬揽攪搅攜携" +
	"攝摄擺摆搖摇攤摊敵敌斂敛數数齋斋鬥斗斬斩斷断無无舊旧時时曠旷晝昼顯显晉晋" +
	"曬晒曉晓暈晕暫暂術术樸朴機机殺杀雜杂權权條条來来楊杨傑杰極极構构樞枢棗枣" +
	"槍枪楓枫檸柠柵栅標标棧栈棟栋欄栏樹树棲栖樣样橋桥槳桨樁桩夢梦檢检樓楼欖榄" +
	"檻槛橫横櫻樱櫥橱歡欢歐欧殲歼殘残毆殴畢毕斃毙氣气氫氢匯汇漢汉湯汤洶汹溝沟" +
	"沒没淪沦滄沧滬沪淚泪瀉泻潑泼澤泽潔洁灑洒淺浅漿浆澆浇濁浊測测濟济瀏浏渾浑" +
	"濃浓濤涛渦涡潤润漲涨淵渊漸渐漁渔滲渗溫温遊游灣湾濕湿潰溃濺溅滾滚滿满濾滤" +
	"濫滥濱滨灘滩潛潜瀾澜滅灭燈灯靈灵災灾燦灿爐炉燉炖點点煉炼熾炽爍烁爛烂煙烟" +
	"煩烦燒烧燙烫熱热煥焕爺爷牽牵犧牺狀状猶犹獨独狹狭獅狮獄狱獵猎豬猪貓猫獻献" +
	"環环現现瑣琐瑪玛電电畫画暢畅療疗瘡疮瘋疯癢痒癱瘫癮瘾皺皱盞盏鹽盐監监蓋盖" +
	"盜盗盤盘盡尽儘尽睜睁瞞瞒矯矫礦矿碼码磚砖礎础碩硕確确礙碍祕秘禮礼禍祸種种" +
	"積积稱称稅税穩稳窮穷竊窃竄窜窩窝窺窥豎竖競竞筍笋筆笔籠笼築筑篩筛箏筝籌筹" +
	"簽签簡简籃篮籬篱簫箫粵粤糞粪糧粮糾纠紅红纖纤約约級级紀纪緯纬純纯紗纱綱纲" +
	"納纳縱纵紛纷紙纸紋纹紡纺紐纽線线練练組组紳绅細细織织終终絆绊紹绍經经綁绑" +
	"絨绒結结繞绕繪绘給给絢绚絡络絕绝絞绞統统絹绢繡绣繼继績绩緒绪續续繩绳維维" +
	"綿绵繃绷綢绸綜综綻绽綠绿綴缀緬缅纜缆緝缉緞缎緩缓締缔縷缕編编緣缘縛缚縫缝" +
	"纏缠縮缩繳缴網网羅罗罰罚罷罢羣群翹翘聳耸恥耻聾聋職职聯联聰聪肅肃腸肠膚肤" +
	"腎肾腫肿脹胀脅胁膽胆勝胜朧胧膠胶脈脉髒脏臟脏臍脐腦脑膿脓腳脚脫脱臉脸臘腊" +
	"膩腻騰腾輿舆艦舰艙舱艱艰豔艳藝艺節节蕪芜蘆芦葦苇蒼苍蘇苏蘋苹範范莖茎繭茧" +
	"薦荐蕩荡榮荣葷荤熒荧蔭荫藥药萊莱蓮莲獲获穫获瑩莹鶯莺蘿萝螢萤營营蕭萧薩萨" +
	"蔥葱蔣蒋藍蓝蘊蕴虜虏慮虑虛虚蟲虫雖虽蝦虾蝕蚀蟻蚁螞蚂蠶蚕蠻蛮蝸蜗蠟蜡蠅蝇" +
	"蟬蝉銜衔補补襯衬襖袄褲裤襪袜襲袭裝装裏里裡里製制見见觀观規规覓觅視视覽览" +
	"覺觉觸触譽誉計计訂订認认譏讥討讨讓让訓训議议訊讯記记講讲許许論论訟讼諷讽" +
	"設设訪访訣诀證证評评識识詐诈訴诉診诊詞词譯译試试詩诗誠诚話话誕诞詭诡詢询" +
	"該该詳详語语誤误誘诱說说請请諸诸諾诺讀读課课誰谁調调諒谅談谈誼谊謀谋諜谍" +
	"謊谎諧谐謂谓諺谚謎谜謝谢謠谣謗谤謙谦謹谨謬谬譚谭譜谱貝贝貞贞負负貢贡財财" +
	"責责賢贤敗败賬账貨货質质販贩貪贪貧贫貶贬購购貯贮貫贯賤贱貼贴貴贵貸贷貿贸" +
	"費费賀贺賊贼賄贿賃赁賂赂贓赃資资賦赋賭赌贖赎賞赏賜赐賠赔賴赖賺赚賽赛贊赞" +
	"贈赠贏赢趙赵趕赶趨趋躍跃踐践踴踊蹤踪軀躯車车軌轨軒轩轉转輪轮軟软轟轰轎轿" +
	"軸轴輕轻載载較较輔辅輛辆輩辈輝辉輻辐輯辑輸输轄辖辭辞辮辫辯辩邊边遼辽達达" +
	"遷迁過过邁迈運运還还這这進进遠远違违連连遲迟跡迹適适選选遞递邏逻遺遗遙遥" +
	"鄧邓郵邮鄰邻鬱郁鄭郑醬酱釀酿釋释鑑鉴鑒鉴釘钉針针釣钓鈍钝鈔钞鍾钟鐘钟鈉钠" +
	"鋼钢鑰钥欽钦鉤钩鈕钮鉗钳鉀钾鈾铀鐵铁鉑铂鈴铃鉛铅鉻铬銘铭銅铜鋁铝銀银鑄铸" +
	"鋪铺鋒锋鋅锌銷销鎖锁鋰锂鍋锅銹锈錯错錨锚錫锡鑼锣錘锤錐锥錦锦鍵键鋸锯鍛锻" +
	"鍍镀鎂镁鎮镇鏈链鏡镜鏢镖鐮镰鑲镶長长門门閂闩閃闪閉闭問问闖闯閏闰聞闻閥阀" +
	"閣阁閡阂閱阅閨闺閩闽閻阎閹阉閘闸闊阔閑闲間间悶闷鬧闹闆板隊队陽阳陰阴陣阵" +
	"階阶際际陸陆隴陇陳陈隕陨險险隨随隱隐隸隶難难雛雏靂雳霧雾黴霉靜静韋韦韓韩" +
	"韜韬韻韵頁页頂顶頃顷項项順顺須须頑顽顧顾頓顿頒颁頌颂預预顱颅領领頗颇頸颈" +
	"頰颊頻频頹颓穎颖顆颗題题顏颜額额顛颠顫颤風风飄飘飛飞飲饮飯饭飼饲飽饱飾饰" +
	"餃饺餅饼餌饵餓饿餘余餡馅館馆饅馒饑饥饒饶饋馈饞馋馬马馭驭馱驮馴驯馳驰驅驱" +
	"駁驳駛驶駐驻駝驼駕驾駭骇驗验騎骑騷骚驟骤驢驴鬆松鬢鬓魚鱼魯鲁鮮鲜鯊鲨鯉鲤" +
	"鯨鲸鱷鳄鳥鸟雞鸡鳴鸣鴉鸦鴻鸿鴿鸽鵑鹃鵝鹅鵡鹉鵬鹏鶴鹤鷹鹰鸚鹦麥麦黃黄齊齐" +
	"齒齿齡龄龍龙龔龚龜龟劍剑髮发復复徵征衝冲嚮向於于後后隻只臺台檯台颱台體体" +
	"麵面偽伪佔占併并傭佣僑侨僕仆僥侥儲储兇凶內内"

var t2s = make(map[rune]rune, len(pairs)/6)

func init() {
	var trad rune
	odd := false
	for _, r := range pairs {
		if odd {
			t2s[trad] = r
		} else {
			trad = r
		}
		odd = !odd
	}
}
